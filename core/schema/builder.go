// Package schema builds the JSON-LD structured-data graph embedded in
// every published article, and validates graphs independently of how
// they were built.
package schema

import (
	"fmt"
	"math"

	"github.com/gaurav-prasanna/blogpipe/config"
	"github.com/gaurav-prasanna/blogpipe/core"
)

const schemaContext = "https://schema.org"

// readWordsPerMinute calibrates the timeRequired estimate.
const readWordsPerMinute = 238

// sectionLabels maps pillar categories to articleSection display labels.
var sectionLabels = map[string]string{
	"strategy":    "Sales Strategy",
	"people":      "Sales People",
	"process":     "Sales Process",
	"performance": "Sales Performance",
}

const sectionFallback = "Sales Optimization"

// Config identifies the site entities referenced by every graph.
type Config struct {
	SiteURL    string
	OrgName    string
	AuthorName string
	ContentMap config.ContentMap
}

// Builder constructs graphs for posts.
type Builder struct {
	cfg Config
}

// New creates a Builder.
func New(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// PostData is the metadata a graph is built from.
type PostData struct {
	URL         string
	Title       string
	Description string
	PublishedAt string // ISO 8601
	ModifiedAt  string // ISO 8601
	ImageURL    string
	WordCount   int
	Pillar      string
	Function    string
	Keywords    string
}

// Graph is a rooted JSON-LD document.
type Graph struct {
	Context string `json:"@context"`
	Nodes   []any  `json:"@graph"`
}

// Ref references a shared entity by stable identifier, with an optional
// display-name hint for consumers that do not resolve the identifier.
type Ref struct {
	ID   string `json:"@id"`
	Name string `json:"name,omitempty"`
}

// ImageObject is a schema.org ImageObject.
type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// Article is a schema.org Article node.
type Article struct {
	Type           string       `json:"@type"`
	ID             string       `json:"@id,omitempty"`
	Headline       string       `json:"headline"`
	Description    string       `json:"description"`
	DatePublished  string       `json:"datePublished"`
	DateModified   string       `json:"dateModified,omitempty"`
	Author         Ref          `json:"author"`
	Publisher      Ref          `json:"publisher"`
	MainEntity     string       `json:"mainEntityOfPage,omitempty"`
	Image          *ImageObject `json:"image,omitempty"`
	WordCount      int          `json:"wordCount,omitempty"`
	ArticleSection string       `json:"articleSection,omitempty"`
	TimeRequired   string       `json:"timeRequired,omitempty"`
	Keywords       string       `json:"keywords,omitempty"`
}

// BreadcrumbList is a schema.org BreadcrumbList node.
type BreadcrumbList struct {
	Type  string     `json:"@type"`
	Items []ListItem `json:"itemListElement"`
}

// ListItem is one breadcrumb entry.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

// FAQPage is a schema.org FAQPage node.
type FAQPage struct {
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// Question is one FAQ entry.
type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is the accepted answer of a Question.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// HowTo is a schema.org HowTo node.
type HowTo struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"step"`
}

// Step is one ordered HowTo step, 1-based.
type Step struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// BuildGraph assembles the full graph: Article and BreadcrumbList always,
// FAQPage iff faqs is non-empty, HowTo iff steps is non-empty. Article
// is always the first node.
func (b *Builder) BuildGraph(post PostData, faqs []core.FAQItem, steps []core.HowToStep) Graph {
	nodes := []any{
		b.buildArticle(post),
		b.buildBreadcrumb(post),
	}
	if len(faqs) > 0 {
		nodes = append(nodes, buildFAQPage(faqs))
	}
	if len(steps) > 0 {
		nodes = append(nodes, buildHowTo(post, steps))
	}
	return Graph{Context: schemaContext, Nodes: nodes}
}

func (b *Builder) buildArticle(post PostData) Article {
	section, ok := sectionLabels[post.Pillar]
	if !ok {
		section = sectionFallback
	}

	var image *ImageObject
	if post.ImageURL != "" {
		image = &ImageObject{Type: "ImageObject", URL: post.ImageURL}
	}

	return Article{
		Type:           "Article",
		ID:             post.URL + "#article",
		Headline:       post.Title,
		Description:    post.Description,
		DatePublished:  post.PublishedAt,
		DateModified:   post.ModifiedAt,
		Author:         Ref{ID: b.cfg.SiteURL + "/#person", Name: b.cfg.AuthorName},
		Publisher:      Ref{ID: b.cfg.SiteURL + "/#organization", Name: b.cfg.OrgName},
		MainEntity:     post.URL,
		Image:          image,
		WordCount:      post.WordCount,
		ArticleSection: section,
		TimeRequired:   readingTime(post.WordCount),
		Keywords:       post.Keywords,
	}
}

// buildBreadcrumb produces the four-level Home → pillar → cluster → post
// chain, resolving names and slugs through the content map with a
// literal fallback.
func (b *Builder) buildBreadcrumb(post PostData) BreadcrumbList {
	cluster := post.Function
	if cluster == "" {
		cluster = post.Pillar
	}
	pillarName, pillarSlug := b.cfg.ContentMap.ResolvePillar(post.Pillar)
	clusterName, clusterSlug := b.cfg.ContentMap.ResolveCluster(post.Pillar, cluster)

	return BreadcrumbList{
		Type: "BreadcrumbList",
		Items: []ListItem{
			{Type: "ListItem", Position: 1, Name: "Home", Item: b.cfg.SiteURL + "/"},
			{Type: "ListItem", Position: 2, Name: pillarName, Item: fmt.Sprintf("%s/%s/", b.cfg.SiteURL, pillarSlug)},
			{Type: "ListItem", Position: 3, Name: clusterName, Item: fmt.Sprintf("%s/%s/%s/", b.cfg.SiteURL, pillarSlug, clusterSlug)},
			{Type: "ListItem", Position: 4, Name: post.Title, Item: post.URL},
		},
	}
}

func buildFAQPage(faqs []core.FAQItem) FAQPage {
	questions := make([]Question, 0, len(faqs))
	for _, item := range faqs {
		questions = append(questions, Question{
			Type:           "Question",
			Name:           item.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: item.Answer},
		})
	}
	return FAQPage{Type: "FAQPage", MainEntity: questions}
}

func buildHowTo(post PostData, steps []core.HowToStep) HowTo {
	out := make([]Step, 0, len(steps))
	for i, s := range steps {
		out = append(out, Step{
			Type:     "HowToStep",
			Position: i + 1,
			Name:     s.Title,
			Text:     s.Description,
		})
	}
	return HowTo{
		Type:        "HowTo",
		Name:        post.Title,
		Description: post.Description,
		Steps:       out,
	}
}

// readingTime renders an ISO 8601 duration from the word count at the
// calibrated reading speed, never below one minute.
func readingTime(wordCount int) string {
	minutes := int(math.Round(float64(wordCount) / readWordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("PT%dM", minutes)
}
