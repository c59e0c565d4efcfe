package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentMap is the pillar → cluster → post hierarchy of the site,
// keyed by lowercase pillar name.
type ContentMap map[string]Pillar

// Pillar holds one pillar page and its clusters.
type Pillar struct {
	PillarPage Page               `yaml:"pillar_page"`
	Clusters   map[string]Cluster `yaml:"clusters"`
}

// Cluster holds one cluster page and its posts.
type Cluster struct {
	ClusterPage Page       `yaml:"cluster_page"`
	Posts       []PostPlan `yaml:"posts"`
}

// Page identifies a pillar or cluster landing page.
type Page struct {
	Title         string `yaml:"title"`
	Slug          string `yaml:"slug"`
	TargetKeyword string `yaml:"target_keyword"`
}

// PostPlan is one planned post in the content map.
type PostPlan struct {
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	Keyword  string `yaml:"keyword"`
	Format   string `yaml:"format"`
	Stage    string `yaml:"stage"`
	Priority int    `yaml:"priority"`
}

// LoadContentMap reads the pillar/cluster map. A missing file yields an
// empty map, not an error — the resolvers then fall back to literal text.
func LoadContentMap(path string) (ContentMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ContentMap{}, nil
		}
		return nil, fmt.Errorf("reading content map %s: %w", path, err)
	}
	var cm ContentMap
	if err := yaml.Unmarshal(data, &cm); err != nil {
		return nil, fmt.Errorf("parsing content map %s: %w", path, err)
	}
	if cm == nil {
		cm = ContentMap{}
	}
	return cm, nil
}

// ResolvePillar maps a pillar name to its display title and slug,
// falling back to the title-cased literal and the lowercase key.
func (cm ContentMap) ResolvePillar(pillar string) (string, string) {
	key := strings.ToLower(strings.TrimSpace(pillar))
	if p, ok := cm[key]; ok && p.PillarPage.Title != "" {
		return p.PillarPage.Title, orElse(p.PillarPage.Slug, key)
	}
	return TitleCase(pillar), key
}

// ResolveCluster maps a cluster name within a pillar to its display
// title and slug: exact key match first, then a substring match on
// cluster display titles, then a literal fallback.
func (cm ContentMap) ResolveCluster(pillar, cluster string) (string, string) {
	key := strings.ToLower(strings.TrimSpace(pillar))
	clusters := cm[key].Clusters

	clusterKey := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(cluster))
	if c, ok := clusters[clusterKey]; ok {
		return orElse(c.ClusterPage.Title, cluster), orElse(c.ClusterPage.Slug, clusterKey)
	}

	keys := make([]string, 0, len(clusters))
	for k := range clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c := clusters[k]
		if strings.Contains(strings.ToLower(c.ClusterPage.Title), strings.ToLower(cluster)) {
			return orElse(c.ClusterPage.Title, cluster), orElse(c.ClusterPage.Slug, k)
		}
	}

	return cluster, Slugify(cluster)
}

// FindPost searches the map for a post whose slug matches (or contains,
// or is contained by) the hint. Returns the post plus its pillar name
// and cluster display title.
func (cm ContentMap) FindPost(slugHint string) (PostPlan, string, string, bool) {
	hint := strings.ReplaceAll(strings.ToLower(slugHint), "_", "-")

	pillarNames := make([]string, 0, len(cm))
	for name := range cm {
		pillarNames = append(pillarNames, name)
	}
	sort.Strings(pillarNames)

	for _, pillarName := range pillarNames {
		pillar := cm[pillarName]
		pp := pillar.PillarPage
		if pp.Slug != "" {
			pillarSlug := strings.ToLower(pp.Slug)
			if strings.Contains(hint, pillarSlug) || strings.Contains(pillarSlug, hint) {
				return PostPlan{
					Title:   pp.Title,
					Slug:    pp.Slug,
					Keyword: pp.TargetKeyword,
					Format:  "pillar_page",
				}, pillarName, "", true
			}
		}
		clusterNames := make([]string, 0, len(pillar.Clusters))
		for name := range pillar.Clusters {
			clusterNames = append(clusterNames, name)
		}
		sort.Strings(clusterNames)

		for _, clusterName := range clusterNames {
			cluster := pillar.Clusters[clusterName]
			cp := cluster.ClusterPage
			if cp.Slug != "" && strings.ToLower(cp.Slug) == hint {
				return PostPlan{
					Title:   cp.Title,
					Slug:    cp.Slug,
					Keyword: cp.TargetKeyword,
					Format:  "cluster_page",
				}, pillarName, orElse(cp.Title, clusterName), true
			}
			for _, post := range cluster.Posts {
				slug := strings.ToLower(post.Slug)
				if slug == "" {
					continue
				}
				if slug == hint || strings.Contains(slug, hint) || strings.Contains(hint, slug) {
					return post, pillarName, orElse(cp.Title, clusterName), true
				}
			}
		}
	}
	return PostPlan{}, "", "", false
}

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify collapses non-alphanumeric runs to hyphens.
func Slugify(s string) string {
	return strings.Trim(nonAlnumRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// TitleCase capitalizes each word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orElse(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
