package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ctaMarkerRegex matches raw unrendered "[CTA: ...]" placeholder tokens.
var ctaMarkerRegex = regexp.MustCompile(`\[CTA:[^\]]*\]`)

// NormalizeCTAs rewrites every call-to-action link to the canonical
// destination and label, and replaces raw [CTA: ...] markers with a fresh
// canonical anchor. Links already in canonical form are left untouched,
// so re-running the pass is a no-op.
func (r *Rewriter) NormalizeCTAs(html string) (string, error) {
	doc, err := parse(html)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href := strings.ToLower(a.AttrOr("href", ""))
		text := strings.ToLower(a.Text())

		if href == strings.ToLower(r.cfg.CTAURL) && a.Text() == r.cfg.CTALabel {
			return // already canonical
		}
		if containsAny(href, r.cfg.CTAHrefPatterns) || containsAny(text, r.cfg.CTATextPatterns) {
			a.SetAttr("href", r.cfg.CTAURL)
			a.SetText(r.cfg.CTALabel)
		}
	})

	out, err := serialize(doc)
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}

	canonical := fmt.Sprintf(`<a href="%s">%s</a>`, r.cfg.CTAURL, r.cfg.CTALabel)
	return ctaMarkerRegex.ReplaceAllString(out, canonical), nil
}
