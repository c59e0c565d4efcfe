// Package extract turns raw markdown (and optional YAML front-matter)
// into a structured core.Draft. Extraction is layered: each section has
// an ordered list of strategies, and the first one that yields a result
// wins. Extraction never fails on malformed input — a missing section
// degrades to an empty value and is surfaced later by the quality gate.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"github.com/gaurav-prasanna/blogpipe/core"
)

const (
	maxSlugLen     = 60
	maxSEOTitleLen = 60
	maxTLDRBullets = 6
	maxMetaDescLen = 160
)

var (
	h1Regex       = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	h2Regex       = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	tldrRegex     = regexp.MustCompile(`(?i)(?:TL;DR|TLDR).*\n((?:[-*]\s+.+\n?){1,6})`)
	takeawayRegex = regexp.MustCompile(`(?is)KEY TAKEAWAY.*?\n(.+?)(?:\n\n|\n#|\z)`)
	faqRegex      = regexp.MustCompile(`(?i)##+\s*(?:FAQ|Frequently Asked).*\n([\s\S]+?)(?:\n##\s|\z)`)
	metaDescRegex = regexp.MustCompile(`(?im)^.*meta.?description.*?:\s*(.+)$`)
	stepRegex     = regexp.MustCompile(`(?i)^(?:step\s+\d+|###\s*\d+)[.:]\s*(.+)$`)
	numberedFAQ   = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*\s*(.*)$`)
	boldQuestion  = regexp.MustCompile(`^\*\*(?:Q:\s*)?(.+?)\*\*$`)
	headQuestion  = regexp.MustCompile(`^###?\s*(?:Q:\s*)?(.+)$`)
)

// Extractor parses raw markdown into Drafts.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract builds a Draft from raw markdown. The topic supplies fallback
// values (title, keyword, category labels) when extraction comes up empty.
func (e *Extractor) Extract(markdown string, topic core.Topic) *core.Draft {
	raw := strings.TrimSpace(markdown)

	title := extractTitle(raw, topic.Title)

	var steps []core.HowToStep
	if topic.Format == core.FormatHowTo {
		steps = extractHowToSteps(raw)
	}

	d := &core.Draft{
		Title:           title,
		Slug:            makeSlug(title),
		Markdown:        raw,
		KeyTakeaway:     extractKeyTakeaway(raw),
		TLDRBullets:     extractTLDR(raw),
		FAQItems:        extractFAQs(raw),
		HowToSteps:      steps,
		ComparisonTable: extractTable(raw),
		MetaDescription: extractMetaDescription(raw, topic),
		SEOTitle:        makeSEOTitle(title),
		WordCount:       len(strings.Fields(raw)),
		Pillar:          topic.Pillar,
		Function:        topic.Function,
	}

	if topic.Pillar != "" {
		d.Categories = []string{topic.Pillar}
	} else {
		d.Categories = []string{"general"}
	}
	d.Tags = makeTags(topic)
	return d
}

// extractTitle returns the first H1, else the first H2, else the fallback.
func extractTitle(md, fallback string) string {
	if m := h1Regex.FindStringSubmatch(md); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := h2Regex.FindStringSubmatch(md); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// extractTLDR captures up to six list items following a TL;DR heading.
func extractTLDR(md string) []string {
	m := tldrRegex.FindStringSubmatch(md)
	if m == nil {
		return nil
	}
	var bullets []string
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*"))
		if line != "" && len(bullets) < maxTLDRBullets {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

// extractKeyTakeaway captures text after a KEY TAKEAWAY heading, up to the
// next blank line or heading.
func extractKeyTakeaway(md string) string {
	m := takeawayRegex.FindStringSubmatch(md)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractFAQs locates the FAQ section and tries two strategies in order:
// bold/heading-prefixed questions, then numbered-list items with a bold
// question. The first strategy that yields at least one pair wins.
func extractFAQs(md string) []core.FAQItem {
	m := faqRegex.FindStringSubmatch(md)
	if m == nil {
		return nil
	}
	section := m[1]
	if items := faqFromMarkers(section); len(items) > 0 {
		return items
	}
	return faqFromNumberedList(section)
}

// faqFromMarkers pairs a **bold** or ###-prefixed question with the answer
// text that follows, up to the next question marker.
func faqFromMarkers(section string) []core.FAQItem {
	var items []core.FAQItem
	var question string
	var answer []string

	flush := func() {
		a := strings.TrimSpace(strings.Join(answer, " "))
		if question != "" && a != "" {
			items = append(items, core.FAQItem{Question: question, Answer: a})
		}
		question = ""
		answer = nil
	}

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			// A blank line ends a completed pair, but a question is
			// allowed to be separated from its answer by blank lines.
			if len(answer) > 0 {
				flush()
			}
			continue
		}
		if q := matchQuestion(line); q != "" {
			flush()
			question = q
			continue
		}
		if question != "" {
			answer = append(answer, strings.TrimSpace(strings.TrimPrefix(line, "A:")))
		}
	}
	flush()
	return items
}

func matchQuestion(line string) string {
	if m := boldQuestion.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := headQuestion.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// faqFromNumberedList handles "N. **question** answer" entries where the
// answer is the remainder of the list entry.
func faqFromNumberedList(section string) []core.FAQItem {
	var items []core.FAQItem
	var current *core.FAQItem

	flush := func() {
		if current != nil && current.Question != "" && current.Answer != "" {
			current.Answer = strings.TrimSpace(current.Answer)
			items = append(items, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if m := numberedFAQ.FindStringSubmatch(line); m != nil {
			flush()
			current = &core.FAQItem{Question: strings.TrimSpace(m[1]), Answer: strings.TrimSpace(m[2])}
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if current != nil {
			current.Answer = strings.TrimSpace(current.Answer + " " + line)
		}
	}
	flush()
	return items
}

// extractHowToSteps pairs each "Step N" (or numbered heading) marker with
// the following non-empty line as its description.
func extractHowToSteps(md string) []core.HowToStep {
	lines := strings.Split(md, "\n")
	var steps []core.HowToStep
	for i, line := range lines {
		m := stepRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		desc := ""
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if stepRegex.MatchString(next) {
				break
			}
			desc = next
			break
		}
		steps = append(steps, core.HowToStep{Title: strings.TrimSpace(m[1]), Description: desc})
	}
	return steps
}

// extractTable returns the first contiguous run of pipe-delimited lines.
func extractTable(md string) string {
	var table []string
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			table = append(table, trimmed)
			continue
		}
		if len(table) >= 2 {
			break
		}
		table = nil
	}
	if len(table) < 2 {
		return ""
	}
	return strings.Join(table, "\n")
}

// extractMetaDescription uses an explicit "meta description:" label when
// its text lands in the 140-170 char window, otherwise synthesizes one
// from the topic and primary keyword, truncated to 160 chars.
func extractMetaDescription(md string, topic core.Topic) string {
	if m := metaDescRegex.FindStringSubmatch(md); m != nil {
		desc := strings.TrimSpace(m[1])
		if len(desc) >= 140 && len(desc) <= 170 {
			return desc
		}
	}
	desc := fmt.Sprintf("%s, explained with benchmark data. %s insights for founders and sales leaders at growth-stage companies.",
		topic.Title, titleCase(topic.PrimaryKeyword))
	if len(desc) > maxMetaDescLen {
		desc = desc[:157] + "..."
	}
	return desc
}

// makeSlug builds a lossy latinized slug capped at 60 chars, cutting at a
// word boundary when truncation would split a word.
func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) <= maxSlugLen {
		return s
	}
	s = s[:maxSlugLen]
	if i := strings.LastIndex(s, "-"); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

// makeSEOTitle truncates titles over 60 chars to 57 plus an ellipsis.
func makeSEOTitle(title string) string {
	if len(title) > maxSEOTitleLen {
		return title[:57] + "..."
	}
	return title
}

func makeTags(topic core.Topic) []string {
	var tags []string
	if topic.PrimaryKeyword != "" {
		tags = append(tags, hyphenate(topic.PrimaryKeyword))
	}
	secondary := topic.SecondaryKeywords
	if len(secondary) > 3 {
		secondary = secondary[:3]
	}
	for _, kw := range secondary {
		tags = append(tags, hyphenate(kw))
	}
	return tags
}

func hyphenate(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
