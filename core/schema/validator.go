package schema

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

// ValidationResult reports structural problems in a serialized graph.
// Errors indicate nodes search engines would reject; warnings indicate
// missing recommended fields.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// isoDateRegex accepts a date or datetime prefix, 2026-08-23 or
// 2026-08-23T10:04:00 style.
var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)

// requiredByType lists the fields each node type must carry.
var requiredByType = map[string][]string{
	"Article":        {"headline", "description", "datePublished", "author", "publisher"},
	"BreadcrumbList": {"itemListElement"},
	"FAQPage":        {"mainEntity"},
	"HowTo":          {"name", "step"},
}

// Validate checks a raw serialized JSON-LD document. It deliberately
// operates on the bytes rather than the builder's types, so graphs from
// any source get the same scrutiny.
func Validate(raw []byte) ValidationResult {
	res := ValidationResult{Valid: true}
	fail := func(format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
	}
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	if !gjson.ValidBytes(raw) {
		fail("document is not valid JSON")
		return res
	}
	doc := gjson.ParseBytes(raw)

	if doc.Get("@context").String() != schemaContext {
		fail("@context must be %q", schemaContext)
	}
	graph := doc.Get("@graph")
	if !graph.IsArray() || len(graph.Array()) == 0 {
		fail("@graph must be a non-empty array")
		return res
	}

	for i, node := range graph.Array() {
		nodeType := node.Get("@type").String()
		if nodeType == "" {
			fail("node %d: missing @type", i)
			continue
		}
		required, known := requiredByType[nodeType]
		if !known {
			warn("node %d: unrecognized @type %q", i, nodeType)
			continue
		}
		for _, field := range required {
			if !node.Get(field).Exists() {
				fail("%s: missing required field %q", nodeType, field)
			}
		}

		switch nodeType {
		case "Article":
			validateArticle(node, fail, warn)
		case "BreadcrumbList":
			validateBreadcrumb(node, fail, warn)
		case "FAQPage":
			validateFAQ(node, fail)
		case "HowTo":
			validateHowTo(node, fail)
		}
	}
	return res
}

type reportFunc func(format string, args ...any)

func validateArticle(node gjson.Result, fail, warn reportFunc) {
	if d := node.Get("datePublished"); d.Exists() && !isoDateRegex.MatchString(d.String()) {
		fail("Article: datePublished %q is not ISO 8601", d.String())
	}
	if d := node.Get("dateModified"); d.Exists() && !isoDateRegex.MatchString(d.String()) {
		fail("Article: dateModified %q is not ISO 8601", d.String())
	}
	if wc := node.Get("wordCount"); wc.Exists() && wc.Type != gjson.Number {
		fail("Article: wordCount must be a number, got %q", wc.Raw)
	}
	if img := node.Get("image"); img.Exists() && img.Get("url").String() == "" {
		warn("Article: image has no url")
	}
}

func validateBreadcrumb(node gjson.Result, fail, warn reportFunc) {
	items := node.Get("itemListElement")
	if !items.IsArray() {
		fail("BreadcrumbList: itemListElement must be an array")
		return
	}
	for i, item := range items.Array() {
		if item.Get("name").String() == "" {
			fail("BreadcrumbList: item %d missing name", i)
		}
		if !item.Get("position").Exists() {
			fail("BreadcrumbList: item %d missing position", i)
		}
		if item.Get("item").String() == "" {
			warn("BreadcrumbList: item %d has no URL", i)
		}
	}
}

func validateFAQ(node gjson.Result, fail reportFunc) {
	entities := node.Get("mainEntity")
	if !entities.IsArray() || len(entities.Array()) == 0 {
		fail("FAQPage: mainEntity must be a non-empty array")
		return
	}
	for i, q := range entities.Array() {
		if q.Get("name").String() == "" {
			fail("FAQPage: question %d missing name", i)
		}
		if q.Get("acceptedAnswer.text").String() == "" {
			fail("FAQPage: question %d missing accepted answer text", i)
		}
	}
}

func validateHowTo(node gjson.Result, fail reportFunc) {
	steps := node.Get("step")
	if !steps.IsArray() || len(steps.Array()) == 0 {
		fail("HowTo: step must be a non-empty array")
		return
	}
	for i, s := range steps.Array() {
		if s.Get("name").String() == "" {
			fail("HowTo: step %d missing name", i)
		}
		if !s.Get("position").Exists() {
			fail("HowTo: step %d missing position", i)
		}
	}
}
