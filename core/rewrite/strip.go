package rewrite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripInternalSection removes the internal-only cross-post section: the
// first h2-h4 heading whose text contains a strip marker, plus every
// following sibling up to (not including) the next heading of the same
// level. At most one section is removed per pass; a document without a
// marker passes through unchanged.
func (r *Rewriter) StripInternalSection(html string) (string, error) {
	doc, err := parse(html)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(heading.Text())
		if !containsAny(text, r.cfg.StripMarkers) {
			return true
		}

		level := goquery.NodeName(heading)
		for sib := heading.Next(); sib.Length() > 0; {
			if goquery.NodeName(sib) == level {
				break
			}
			next := sib.Next()
			sib.Remove()
			sib = next
		}
		heading.Remove()
		return false // first match only
	})

	out, err := serialize(doc)
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return out, nil
}
