package rewrite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// skipElements never have their text linkified.
var skipElements = map[string]bool{
	"a": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"script": true, "style": true,
}

// InjectPlannedLinks wraps the first textual occurrence of each planned
// anchor in a hyperlink to its resolved target. Relative targets resolve
// against the site base URL. At most one link per anchor text is
// injected, and a target already linked anywhere in the document is
// skipped, which makes re-running the pass a no-op.
func (r *Rewriter) InjectPlannedLinks(htmlIn string, links []core.PlannedLink) (string, error) {
	if len(links) == 0 {
		return htmlIn, nil
	}
	doc, err := parse(htmlIn)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	linked := linkedTargets(doc)
	for _, link := range links {
		target := r.resolveTarget(link.Target)
		if target == "" || linked[target] {
			continue
		}
		if injectAnchor(doc, link.Anchor, target) {
			linked[target] = true
		}
	}

	out, err := serialize(doc)
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return out, nil
}

// InjectReactiveLinks discovers link opportunities against existing
// posts: candidate phrases are extracted from each post title and the
// first phrase found in the document text is wrapped in a link to that
// post. A destination URL is never linked twice (planned links count),
// and scanning stops once MaxInjectedLinks reactive links are placed.
func (r *Rewriter) InjectReactiveLinks(htmlIn string, posts []core.PostRef) (string, error) {
	if len(posts) == 0 {
		return htmlIn, nil
	}
	doc, err := parse(htmlIn)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	linked := linkedTargets(doc)
	injected := 0
	for _, post := range posts {
		if injected >= r.cfg.MaxInjectedLinks {
			break
		}
		if post.URL == "" || linked[post.URL] {
			continue
		}
		for _, phrase := range r.linkPhrases(post.Title) {
			if injectAnchor(doc, phrase, post.URL) {
				linked[post.URL] = true
				injected++
				break
			}
		}
	}

	out, err := serialize(doc)
	if err != nil {
		return "", fmt.Errorf("serializing HTML: %w", err)
	}
	return out, nil
}

// resolveTarget resolves relative paths against the site base URL;
// absolute URLs pass through unchanged.
func (r *Rewriter) resolveTarget(target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "/") {
		return strings.TrimRight(r.cfg.SiteURL, "/") + target
	}
	return target
}

// linkedTargets collects every href already present in the document.
func linkedTargets(doc *goquery.Document) map[string]bool {
	linked := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			linked[href] = true
		}
	})
	return linked
}

// injectAnchor wraps the first case-insensitive occurrence of anchorText
// in a text node (outside skip elements) with a link to target. Returns
// false when no eligible occurrence exists.
func injectAnchor(doc *goquery.Document, anchorText, target string) bool {
	body := doc.Find("body")
	if body.Length() == 0 {
		return false
	}

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return false
		}
		if n.Type == html.TextNode {
			if idx := indexFold(n.Data, anchorText); idx >= 0 {
				wrapTextRange(n, idx, len(anchorText), target)
				return true
			}
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling // wrapTextRange splices new siblings in
			if walk(c) {
				return true
			}
			c = next
		}
		return false
	}

	for _, n := range body.Nodes {
		if walk(n) {
			return true
		}
	}
	return false
}

// wrapTextRange splits a text node around [idx, idx+length) and wraps the
// matched run in an anchor element, preserving the document's own casing.
func wrapTextRange(n *html.Node, idx, length int, target string) {
	parent := n.Parent
	matched := n.Data[idx : idx+length]
	after := n.Data[idx+length:]
	ref := n.NextSibling

	link := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: target}},
	}
	link.AppendChild(&html.Node{Type: html.TextNode, Data: matched})

	n.Data = n.Data[:idx]
	parent.InsertBefore(link, ref)
	if after != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, ref)
	}
	if n.Data == "" {
		parent.RemoveChild(n)
	}
}

// indexFold is a byte-offset-preserving case-insensitive substring
// search (ASCII folding only, which covers anchor text in practice).
func indexFold(s, substr string) int {
	return strings.Index(lowerASCII(s), lowerASCII(substr))
}

func lowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
