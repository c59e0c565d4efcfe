package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMap() ContentMap {
	return ContentMap{
		"strategy": {
			PillarPage: Page{Title: "Sales Strategy Guide", Slug: "sales-strategy", TargetKeyword: "sales strategy"},
			Clusters: map[string]Cluster{
				"positioning": {
					ClusterPage: Page{Title: "Positioning Deep Dive", Slug: "positioning"},
					Posts: []PostPlan{
						{Title: "Why Positioning Matters", Slug: "why-positioning-matters", Keyword: "positioning"},
					},
				},
			},
		},
	}
}

func TestLoadContentMapMissingFile(t *testing.T) {
	cm, err := LoadContentMap(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Empty(t, cm)
}

func TestLoadContentMapParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	data := `strategy:
  pillar_page:
    title: Sales Strategy Guide
    slug: sales-strategy
  clusters:
    positioning:
      cluster_page:
        title: Positioning Deep Dive
        slug: positioning
      posts:
        - title: Why Positioning Matters
          slug: why-positioning-matters
          keyword: positioning
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cm, err := LoadContentMap(path)

	require.NoError(t, err)
	require.Contains(t, cm, "strategy")
	assert.Equal(t, "sales-strategy", cm["strategy"].PillarPage.Slug)
	assert.Len(t, cm["strategy"].Clusters["positioning"].Posts, 1)
}

func TestResolvePillar(t *testing.T) {
	cm := sampleMap()

	name, slug := cm.ResolvePillar("Strategy")
	assert.Equal(t, "Sales Strategy Guide", name)
	assert.Equal(t, "sales-strategy", slug)

	name, slug = cm.ResolvePillar("unknown pillar")
	assert.Equal(t, "Unknown Pillar", name)
	assert.Equal(t, "unknown pillar", slug)
}

func TestResolveCluster(t *testing.T) {
	cm := sampleMap()

	// Exact key, with separator normalization.
	name, slug := cm.ResolveCluster("strategy", "Positioning")
	assert.Equal(t, "Positioning Deep Dive", name)
	assert.Equal(t, "positioning", slug)

	// Substring match on the display title.
	name, slug = cm.ResolveCluster("strategy", "deep dive")
	assert.Equal(t, "Positioning Deep Dive", name)
	assert.Equal(t, "positioning", slug)

	// Literal fallback.
	name, slug = cm.ResolveCluster("strategy", "Rev Ops")
	assert.Equal(t, "Rev Ops", name)
	assert.Equal(t, "rev-ops", slug)
}

func TestFindPost(t *testing.T) {
	cm := sampleMap()

	post, pillar, cluster, ok := cm.FindPost("why-positioning-matters")
	require.True(t, ok)
	assert.Equal(t, "Why Positioning Matters", post.Title)
	assert.Equal(t, "strategy", pillar)
	assert.Equal(t, "Positioning Deep Dive", cluster)

	_, _, _, ok = cm.FindPost("never-written")
	assert.False(t, ok)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "rev-ops-101", Slugify("Rev Ops: 101!"))
	assert.Equal(t, "plain", Slugify("plain"))
}
