// Package rewrite applies deterministic transformations to rendered
// article HTML: CTA normalization, internal-section stripping, and
// planned/reactive internal-link injection. Every operation is a pure
// HTML → HTML function that is safe to re-run, and none of them alter
// text inside anchor, heading, or script elements — guaranteed
// structurally by operating on the parsed DOM rather than on strings.
package rewrite

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Config carries the rewrite lookup tables and caps. All fields are
// treated as immutable after construction.
type Config struct {
	// Canonical call-to-action destination and label.
	CTAURL   string
	CTALabel string

	// Substrings identifying CTA links by href or by visible text.
	CTAHrefPatterns []string
	CTATextPatterns []string

	// Case-insensitive phrases marking the internal-only section heading.
	StripMarkers []string

	// Base URL for resolving relative planned-link targets.
	SiteURL string

	// Maximum reactive links injected per document.
	MaxInjectedLinks int

	// Words ignored when extracting link phrases from post titles.
	StopWords []string
}

// DefaultConfig returns the production lookup tables.
func DefaultConfig() Config {
	return Config{
		CTAHrefPatterns: []string{
			"sales-alpha-roadmap", "#cta", "link-to-cta", "/roadmap",
			"founder-call", "link)", "(link",
		},
		CTATextPatterns: []string{
			"sales alpha roadmap", "get the roadmap", "get your",
			"book a consultation", "book a 20-minute", "schedule a",
			"get started", "free diagnostic", "cta:",
		},
		StripMarkers: []string{
			"reddit cross-post", "reddit cross post",
		},
		MaxInjectedLinks: 5,
		StopWords: []string{
			"the", "a", "an", "is", "are", "was", "were",
			"how", "why", "what", "your", "you",
		},
	}
}

// Rewriter applies the rewrite operations.
type Rewriter struct {
	cfg       Config
	stopWords map[string]bool
}

// New creates a Rewriter. Zero-valued caps fall back to defaults.
func New(cfg Config) *Rewriter {
	if cfg.MaxInjectedLinks <= 0 {
		cfg.MaxInjectedLinks = DefaultConfig().MaxInjectedLinks
	}
	stop := make(map[string]bool, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[strings.ToLower(w)] = true
	}
	return &Rewriter{cfg: cfg, stopWords: stop}
}

// parse wraps an HTML fragment in a document for DOM manipulation.
func parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// serialize returns the body fragment of a parsed document.
func serialize(doc *goquery.Document) (string, error) {
	return doc.Find("body").Html()
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
