// Package quality scores a Draft against the editorial rubric. The gate
// is a pure function over the Draft (plus an optional Topic for keyword
// checks): it collects every failure and warning instead of stopping at
// the first, and returns them as data, never as errors.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// Rubric thresholds. The density divisors and percentage bounds are
// calibration constants carried over from the editorial template.
const (
	minWordCount        = 1200
	maxWordCount        = 2000
	minFAQItems         = 5
	requiredTLDR        = 4
	statWordDivisor     = 175
	keyTakeawayMinWords = 40
	keyTakeawayMaxWords = 60
	minKeywordDensity   = 0.5
	maxKeywordDensity   = 2.0
	defaultMinLinks     = 3
)

// statPatterns match the four statistic token shapes: percentages,
// currency amounts, comma-grouped integers, and multipliers. A token may
// match more than one pattern and counts once per pattern.
var statPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\$[\d,.]+[MBK]?`),
	regexp.MustCompile(`\d{1,3}(?:,\d{3})+`),
	regexp.MustCompile(`\d+x\b`),
}

var (
	h1Regex       = regexp.MustCompile(`(?m)^# [^#]`)
	h2Regex       = regexp.MustCompile(`(?m)^## [^#]`)
	h2TextRegex   = regexp.MustCompile(`(?m)^## (.+)$`)
	headingsRegex = regexp.MustCompile(`(?m)^(#{1,6})\s`)
	anchorRegex   = regexp.MustCompile(`<a\s+href=`)
)

// Config tunes the gate. Zero values fall back to rubric defaults.
type Config struct {
	MinInternalLinks int
}

// Gate checks Drafts against the rubric.
type Gate struct {
	minInternalLinks int
}

// New creates a Gate.
func New(cfg Config) *Gate {
	min := cfg.MinInternalLinks
	if min <= 0 {
		min = defaultMinLinks
	}
	return &Gate{minInternalLinks: min}
}

// Check scores the draft. Keyword checks run only when a topic with a
// non-empty primary keyword is supplied; they are always advisory.
func (g *Gate) Check(d *core.Draft, topic *core.Topic) core.QualityResult {
	var failures, warnings []string
	md := d.Markdown

	// Key takeaway.
	if d.KeyTakeaway == "" {
		failures = append(failures, "Missing Key Takeaway block")
	} else if n := len(strings.Fields(d.KeyTakeaway)); n < keyTakeawayMinWords || n > keyTakeawayMaxWords {
		warnings = append(warnings, fmt.Sprintf("Key Takeaway is %d words (target: 40-60)", n))
	}

	// FAQ count.
	if len(d.FAQItems) < minFAQItems {
		failures = append(failures, fmt.Sprintf("Only %d FAQ items (minimum %d)", len(d.FAQItems), minFAQItems))
	}

	// Comparison table.
	if d.ComparisonTable == "" {
		failures = append(failures, "Missing comparison table")
	}

	// Word count.
	if d.WordCount < minWordCount {
		failures = append(failures, fmt.Sprintf("Only %d words (minimum %d)", d.WordCount, minWordCount))
	}
	if d.WordCount > maxWordCount {
		warnings = append(warnings, fmt.Sprintf("%d words (target max %d)", d.WordCount, maxWordCount))
	}

	// Statistic density.
	statCount := countStatistics(md)
	expected := d.WordCount / statWordDivisor
	if statCount < expected {
		failures = append(failures, fmt.Sprintf("Only %d stats found (expected ~%d)", statCount, expected))
	}

	// TL;DR bullet count: exactly four.
	if len(d.TLDRBullets) != requiredTLDR {
		failures = append(failures, fmt.Sprintf("TL;DR has %d bullets (need exactly %d)", len(d.TLDRBullets), requiredTLDR))
	}

	// Meta description length is advisory only.
	if d.MetaDescription != "" {
		switch n := len(d.MetaDescription); {
		case n < 140:
			warnings = append(warnings, fmt.Sprintf("Meta description short: %d chars (target 150-160)", n))
		case n > 170:
			warnings = append(warnings, fmt.Sprintf("Meta description long: %d chars (target 150-160)", n))
		}
	}

	failures, warnings = g.checkHeadings(md, failures, warnings)

	if topic != nil && topic.PrimaryKeyword != "" {
		warnings = g.checkKeyword(d, topic, warnings)
	}

	// SEO title length is advisory only.
	if d.SEOTitle != "" {
		switch n := len(d.SEOTitle); {
		case n > 65:
			warnings = append(warnings, fmt.Sprintf("SEO title is %d chars (target: 50-60, may truncate)", n))
		case n < 30:
			warnings = append(warnings, fmt.Sprintf("SEO title is only %d chars (target: 50-60)", n))
		}
	}

	// Internal link minimum: anchors already in the HTML plus planned
	// links. Reactive linking is expected to supplement, so warn only.
	total := len(anchorRegex.FindAllString(d.HTML, -1)) + len(d.PlannedLinks)
	if total < g.minInternalLinks {
		warnings = append(warnings, fmt.Sprintf(
			"Only %d internal links (minimum: %d). Reactive linking will attempt to supplement.",
			total, g.minInternalLinks))
	}

	return core.QualityResult{
		Passes:   len(failures) == 0,
		Failures: failures,
		Warnings: warnings,
	}
}

// checkHeadings validates the heading hierarchy: exactly one H1, 5-8 H2s,
// and no level skips (e.g. H1 directly to H3). Only the first skip in
// document order is reported.
func (g *Gate) checkHeadings(md string, failures, warnings []string) ([]string, []string) {
	h1Count := len(h1Regex.FindAllString(md, -1))
	h2Count := len(h2Regex.FindAllString(md, -1))

	if h1Count == 0 {
		failures = append(failures, "Missing H1 heading")
	} else if h1Count > 1 {
		warnings = append(warnings, fmt.Sprintf("Found %d H1 headings (should be exactly 1)", h1Count))
	}

	if h2Count < 5 {
		warnings = append(warnings, fmt.Sprintf("Only %d H2 headings (target: 5-8 for scannability)", h2Count))
	} else if h2Count > 10 {
		warnings = append(warnings, fmt.Sprintf("%d H2 headings (target max: 8)", h2Count))
	}

	levels := headingsRegex.FindAllStringSubmatch(md, -1)
	for i := 1; i < len(levels); i++ {
		prev, curr := len(levels[i-1][1]), len(levels[i][1])
		if curr > prev+1 {
			warnings = append(warnings, fmt.Sprintf("Heading level skip: H%d to H%d (heading #%d)", prev, curr, i+1))
			break
		}
	}
	return failures, warnings
}

// checkKeyword runs the advisory keyword density and placement checks.
func (g *Gate) checkKeyword(d *core.Draft, topic *core.Topic, warnings []string) []string {
	kw := strings.ToLower(topic.PrimaryKeyword)
	lower := strings.ToLower(d.Markdown)
	count := strings.Count(lower, kw)

	if d.WordCount > 0 {
		density := float64(count*len(strings.Fields(kw))) / float64(d.WordCount) * 100
		if density < minKeywordDensity {
			warnings = append(warnings, fmt.Sprintf(
				"Focus keyword '%s' appears %dx (~%.1f%% density, target: 0.8-1.5%%)", kw, count, density))
		} else if density > maxKeywordDensity {
			warnings = append(warnings, fmt.Sprintf(
				"Focus keyword '%s' may be over-used: %dx (~%.1f%% density, target: 0.8-1.5%%)", kw, count, density))
		}
	}

	var missing []string

	words := strings.Fields(lower)
	if len(words) > 100 {
		words = words[:100]
	}
	if !strings.Contains(strings.Join(words, " "), kw) {
		missing = append(missing, "first 100 words")
	}

	inH2 := false
	for _, m := range h2TextRegex.FindAllStringSubmatch(d.Markdown, -1) {
		if strings.Contains(strings.ToLower(m[1]), kw) {
			inH2 = true
			break
		}
	}
	if !inH2 {
		missing = append(missing, "H2 heading")
	}

	if d.MetaDescription != "" && !strings.Contains(strings.ToLower(d.MetaDescription), kw) {
		missing = append(missing, "meta description")
	}

	if len(d.FAQItems) > 0 {
		var questions []string
		for _, item := range d.FAQItems {
			questions = append(questions, strings.ToLower(item.Question))
		}
		if !strings.Contains(strings.Join(questions, " "), kw) {
			missing = append(missing, "FAQ question")
		}
	}

	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("Focus keyword missing from: %s", strings.Join(missing, ", ")))
	}
	return warnings
}

// countStatistics sums matches across all four statistic patterns,
// overlaps allowed.
func countStatistics(text string) int {
	count := 0
	for _, p := range statPatterns {
		count += len(p.FindAllString(text, -1))
	}
	return count
}
