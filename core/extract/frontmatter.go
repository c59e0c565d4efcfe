package extract

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// FrontMatter is the optional YAML metadata block ahead of a pre-authored
// draft. Present fields override the corresponding extracted values
// verbatim.
type FrontMatter struct {
	Title             string                  `yaml:"title"`
	Slug              string                  `yaml:"slug"`
	SEOTitle          string                  `yaml:"seo_title"`
	MetaDescription   string                  `yaml:"meta_description"`
	Tags              []string                `yaml:"tags"`
	Category          string                  `yaml:"category"`
	FocusKeyword      string                  `yaml:"focus_keyword"`
	SecondaryKeywords KeywordList             `yaml:"secondary_keywords"`
	Pillar            string                  `yaml:"pillar"`
	Function          string                  `yaml:"function"`
	GrowthStage       string                  `yaml:"growth_stage"`
	ContentFormat     string                  `yaml:"content_format"`
	InternalLinks     map[string]InternalLink `yaml:"internal_links"`
}

// InternalLink is one pre-planned link entry from front-matter.
type InternalLink struct {
	Anchor string `yaml:"anchor"`
	Target string `yaml:"target"`
}

// KeywordList accepts either a YAML sequence or a comma-separated string.
type KeywordList []string

func (k *KeywordList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*k = append(*k, part)
			}
		}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*k = list
	return nil
}

// ParseFrontMatter splits a document into its YAML front-matter block and
// body. Documents without a leading "---" fence (or with unparseable YAML)
// degrade to an empty FrontMatter and the full content as body.
func ParseFrontMatter(content string) (FrontMatter, string, bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---") {
		return FrontMatter{}, strings.TrimSpace(normalized), false
	}
	parts := strings.SplitN(normalized, "---", 3)
	if len(parts) < 3 {
		return FrontMatter{}, strings.TrimSpace(normalized), false
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return FrontMatter{}, strings.TrimSpace(normalized), false
	}
	return fm, strings.TrimSpace(parts[2]), true
}

// Apply overrides extractor-derived Draft fields with front-matter values.
func (fm FrontMatter) Apply(d *core.Draft) {
	if fm.SEOTitle != "" {
		d.SEOTitle = fm.SEOTitle
	}
	if fm.MetaDescription != "" {
		d.MetaDescription = fm.MetaDescription
	}
	if fm.Slug != "" {
		d.Slug = fm.Slug
	}
	if len(fm.Tags) > 0 {
		tags := make([]string, 0, len(fm.Tags))
		for _, t := range fm.Tags {
			tags = append(tags, hyphenate(t))
		}
		d.Tags = tags
	}
	if fm.Category != "" {
		d.Categories = []string{fm.Category}
	}
	if fm.Pillar != "" {
		d.Pillar = strings.ToLower(strings.TrimSpace(fm.Pillar))
	}
	if fm.Function != "" {
		d.Function = fm.Function
	}
	if len(fm.InternalLinks) > 0 {
		d.PlannedLinks = fm.PlannedLinks()
	}
}

// PlannedLinks flattens the front-matter internal_links map, classifying
// each entry by its key name (pillar_link, sibling_link, cross_pillar...).
func (fm FrontMatter) PlannedLinks() []core.PlannedLink {
	keys := make([]string, 0, len(fm.InternalLinks))
	for k := range fm.InternalLinks {
		keys = append(keys, k)
	}
	// Map iteration order is random; planned links are order-preserving.
	sort.Strings(keys)

	var links []core.PlannedLink
	for _, key := range keys {
		entry := fm.InternalLinks[key]
		anchor := strings.TrimSpace(entry.Anchor)
		target := strings.TrimSpace(entry.Target)
		if anchor == "" || target == "" {
			continue
		}
		links = append(links, core.PlannedLink{
			Anchor: anchor,
			Target: target,
			Type:   classifyLinkKey(key),
		})
	}
	return links
}

func classifyLinkKey(key string) string {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "cross"):
		return "cross_pillar"
	case strings.Contains(k, "pillar"):
		return "pillar"
	case strings.Contains(k, "sibling"), strings.Contains(k, "sister"):
		return "sibling"
	case strings.Contains(k, "cluster"):
		return "cluster"
	case strings.Contains(k, "post"):
		return "post"
	default:
		return "internal"
	}
}
