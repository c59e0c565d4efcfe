package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/blogpipe/config"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func writeDraft(t *testing.T, dir, folder, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, folder, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestQueueOrdering(t *testing.T) {
	dir := t.TempDir()
	writeDraft(t, dir, "week-02", "day-01-late-post.md", "# Late")
	writeDraft(t, dir, "week-01", "day-02-second.md", "# Second")
	writeDraft(t, dir, "week-01", "day-01-first.md", "# First")
	writeDraft(t, dir, "cluster-pages", "cluster-forecasting.md", "# Forecasting")
	writeDraft(t, dir, "pillar-pages", "pillar-strategy.md", "# Strategy")
	writeDraft(t, dir, "notes", "scratch.txt", "not a draft")

	ing := New(config.ContentMap{}, testLog())
	items, err := ing.Queue(dir, nil)

	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "strategy", items[0].Slug)
	assert.Equal(t, "forecasting", items[1].Slug)
	assert.Equal(t, "first", items[2].Slug)
	assert.Equal(t, "second", items[3].Slug)
	assert.Equal(t, "late-post", items[4].Slug)
}

func TestQueueSkipsPublished(t *testing.T) {
	dir := t.TempDir()
	writeDraft(t, dir, "week-01", "day-01-done.md", "# Done")
	writeDraft(t, dir, "week-01", "day-02-pending.md", "# Pending")

	ing := New(config.ContentMap{}, testLog())
	items, err := ing.Queue(dir, func(slug string) bool { return slug == "done" })

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pending", items[0].Slug)
}

func TestLoadMarkdownWithFrontMatter(t *testing.T) {
	dir := t.TempDir()
	content := `---
title: Quota Setting
focus_keyword: quota setting
pillar: performance
---
# Quota Setting

Body.`
	path := writeDraft(t, dir, "week-01", "day-01-quota-setting.md", content)

	ing := New(config.ContentMap{}, testLog())
	src, err := ing.Load(path)

	require.NoError(t, err)
	assert.True(t, src.Trusted)
	require.NotNil(t, src.FrontMatter)
	assert.Equal(t, "quota setting", src.Topic.PrimaryKeyword)
	assert.Equal(t, "performance", src.Topic.Pillar)
	assert.Contains(t, src.Markdown, "# Quota Setting")
	assert.NotContains(t, src.Markdown, "focus_keyword")
}

func TestLoadHTMLDraftConvertsToMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeDraft(t, dir, "week-01", "day-01-html-draft.html",
		"<h1>HTML Draft</h1><p>Converted body text.</p>")

	ing := New(config.ContentMap{}, testLog())
	src, err := ing.Load(path)

	require.NoError(t, err)
	assert.Contains(t, src.Markdown, "HTML Draft")
	assert.Contains(t, src.Markdown, "Converted body text.")
	assert.NotContains(t, src.Markdown, "<p>")
}

func TestLoadInfersTopicFromContentMap(t *testing.T) {
	cm := config.ContentMap{
		"performance": {
			Clusters: map[string]config.Cluster{
				"forecasting": {
					ClusterPage: config.Page{Title: "Forecasting", Slug: "forecasting"},
					Posts: []config.PostPlan{
						{Title: "Pipeline Coverage", Slug: "pipeline-coverage", Keyword: "pipeline coverage", Format: "data_insight"},
					},
				},
			},
		},
	}
	dir := t.TempDir()
	path := writeDraft(t, dir, "week-01", "day-03-pipeline-coverage.md", "# Pipeline Coverage\n\nBody.")

	ing := New(cm, testLog())
	src, err := ing.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "pipeline coverage", src.Topic.PrimaryKeyword)
	assert.Equal(t, "performance", src.Topic.Pillar)
	assert.Equal(t, "Forecasting", src.Topic.Function)
}

func TestSlugFromFilename(t *testing.T) {
	assert.Equal(t, "pipeline-coverage", slugFromFilename("day-03-pipeline-coverage.md"))
	assert.Equal(t, "strategy", slugFromFilename("pillar-strategy.md"))
	assert.Equal(t, "forecasting", slugFromFilename("cluster-forecasting.html"))
	assert.Equal(t, "snake-case", slugFromFilename("snake_case.md"))
}
