package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/blogpipe/core"
)

const fmDoc = `---
title: Pipeline Coverage Benchmarks
slug: pipeline-coverage-benchmarks
seo_title: Pipeline Coverage Benchmarks for 2026
meta_description: How much pipeline is enough, backed by data.
focus_keyword: pipeline coverage
secondary_keywords: sales forecasting, quota attainment
pillar: Performance
function: forecasting
tags:
  - pipeline
  - forecasting
category: Sales Performance
internal_links:
  pillar_link:
    anchor: sales performance guide
    target: /sales-performance/
  sibling_post:
    anchor: quota setting
    target: https://example.com/quota-setting/
---
# Pipeline Coverage Benchmarks

Body text.`

func TestParseFrontMatter(t *testing.T) {
	fm, body, ok := ParseFrontMatter(fmDoc)

	require.True(t, ok)
	assert.Equal(t, "Pipeline Coverage Benchmarks", fm.Title)
	assert.Equal(t, "pipeline-coverage-benchmarks", fm.Slug)
	assert.Equal(t, []string{"sales forecasting", "quota attainment"}, []string(fm.SecondaryKeywords))
	assert.True(t, len(body) > 0)
	assert.Contains(t, body, "# Pipeline Coverage Benchmarks")
	assert.NotContains(t, body, "focus_keyword")
}

func TestParseFrontMatterAbsent(t *testing.T) {
	fm, body, ok := ParseFrontMatter("# Just A Title\n\nBody.")

	assert.False(t, ok)
	assert.Empty(t, fm.Title)
	assert.Equal(t, "# Just A Title\n\nBody.", body)
}

func TestParseFrontMatterBadYAMLDegrades(t *testing.T) {
	doc := "---\n: : not yaml : :\n---\nbody"
	_, body, ok := ParseFrontMatter(doc)

	assert.False(t, ok)
	assert.Contains(t, body, "body")
}

func TestKeywordListSequence(t *testing.T) {
	doc := "---\nsecondary_keywords:\n  - one\n  - two\n---\nbody"
	fm, _, ok := ParseFrontMatter(doc)

	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, []string(fm.SecondaryKeywords))
}

func TestFrontMatterApplyOverrides(t *testing.T) {
	fm, _, ok := ParseFrontMatter(fmDoc)
	require.True(t, ok)

	d := &core.Draft{
		Slug:            "extracted-slug",
		SEOTitle:        "Extracted SEO Title",
		MetaDescription: "extracted description",
		Pillar:          "process",
	}
	fm.Apply(d)

	assert.Equal(t, "pipeline-coverage-benchmarks", d.Slug)
	assert.Equal(t, "Pipeline Coverage Benchmarks for 2026", d.SEOTitle)
	assert.Equal(t, "How much pipeline is enough, backed by data.", d.MetaDescription)
	assert.Equal(t, "performance", d.Pillar)
	assert.Equal(t, "forecasting", d.Function)
	assert.Equal(t, []string{"Sales Performance"}, d.Categories)
	assert.Equal(t, []string{"pipeline", "forecasting"}, d.Tags)
}

func TestPlannedLinksClassification(t *testing.T) {
	fm, _, ok := ParseFrontMatter(fmDoc)
	require.True(t, ok)

	links := fm.PlannedLinks()
	require.Len(t, links, 2)

	// Keys are sorted, so pillar_link precedes sibling_post.
	assert.Equal(t, "sales performance guide", links[0].Anchor)
	assert.Equal(t, "pillar", links[0].Type)
	assert.Equal(t, "quota setting", links[1].Anchor)
	assert.Equal(t, "sibling", links[1].Type)
}

func TestClassifyLinkKey(t *testing.T) {
	assert.Equal(t, "cross_pillar", classifyLinkKey("cross_pillar_link"))
	assert.Equal(t, "pillar", classifyLinkKey("pillar_link"))
	assert.Equal(t, "sibling", classifyLinkKey("sister_cluster"))
	assert.Equal(t, "cluster", classifyLinkKey("cluster_page"))
	assert.Equal(t, "internal", classifyLinkKey("misc"))
}
