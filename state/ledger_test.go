package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/blogpipe/core"
)

func TestLedgerMissingFileIsEmpty(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "state.yaml"))

	require.NoError(t, err)
	assert.False(t, l.IsPublished("anything"))
	assert.Empty(t, l.PublishedSlugs())
}

func TestLedgerRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	l, err := Load(path)
	require.NoError(t, err)

	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	require.NoError(t, l.RecordPublish(core.PublishRecord{
		Slug: "b-post", Title: "B", PostID: 2, Pillar: "strategy", PublishedAt: now,
	}))
	require.NoError(t, l.RecordPublish(core.PublishRecord{
		Slug: "a-post", Title: "A", PostID: 1, Pillar: "strategy", PublishedAt: now,
	}))

	assert.True(t, l.IsPublished("a-post"))
	assert.False(t, l.IsPublished("c-post"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPublished("a-post"))
	assert.True(t, reloaded.IsPublished("b-post"))
	assert.Equal(t, []string{"a-post", "b-post"}, reloaded.PublishedSlugs())
}

func TestLedgerPillarCounts(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, l.RecordPublish(core.PublishRecord{Slug: "a", Pillar: "strategy", PublishedAt: now}))
	require.NoError(t, l.RecordPublish(core.PublishRecord{Slug: "b", Pillar: "strategy", PublishedAt: now}))
	require.NoError(t, l.RecordPublish(core.PublishRecord{Slug: "c", Pillar: "people", PublishedAt: now}))

	counts := l.PillarCounts()
	assert.Equal(t, 2, counts["strategy"])
	assert.Equal(t, 1, counts["people"])
}
