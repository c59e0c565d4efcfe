package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/blogpipe/core"
)

func testRewriter() *Rewriter {
	cfg := DefaultConfig()
	cfg.SiteURL = "https://example.com"
	cfg.CTAURL = "https://example.com/#contact"
	cfg.CTALabel = "Talk to the Team"
	return New(cfg)
}

func TestNormalizeCTAsByHref(t *testing.T) {
	r := testRewriter()
	in := `<p>Ready? <a href="/sales-alpha-roadmap">Grab it here</a>.</p>`

	out, err := r.NormalizeCTAs(in)

	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.com/#contact"`)
	assert.Contains(t, out, ">Talk to the Team</a>")
	assert.NotContains(t, out, "Grab it here")
}

func TestNormalizeCTAsByText(t *testing.T) {
	r := testRewriter()
	in := `<p><a href="/somewhere">Book a consultation</a></p>`

	out, err := r.NormalizeCTAs(in)

	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.com/#contact"`)
	assert.Contains(t, out, "Talk to the Team")
}

func TestNormalizeCTAsIdempotent(t *testing.T) {
	r := testRewriter()
	in := `<p><a href="/sales-alpha-roadmap">Get the roadmap</a> and [CTA: book now]</p>`

	once, err := r.NormalizeCTAs(in)
	require.NoError(t, err)
	twice, err := r.NormalizeCTAs(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, strings.Count(once, "Talk to the Team"))
}

func TestNormalizeCTAsLeavesOrdinaryLinks(t *testing.T) {
	r := testRewriter()
	in := `<p><a href="https://example.com/pricing/">our pricing page</a></p>`

	out, err := r.NormalizeCTAs(in)

	require.NoError(t, err)
	assert.Contains(t, out, "our pricing page")
	assert.Contains(t, out, `href="https://example.com/pricing/"`)
}

func TestCTAMarkerReplaced(t *testing.T) {
	r := testRewriter()

	out, err := r.NormalizeCTAs(`<p>Before [CTA: schedule a call] after</p>`)

	require.NoError(t, err)
	assert.NotContains(t, out, "[CTA:")
	assert.Contains(t, out, `<a href="https://example.com/#contact">Talk to the Team</a>`)
}

func TestStripInternalSection(t *testing.T) {
	r := testRewriter()
	in := `<h2>Intro</h2><p>keep me</p><h2>Reddit Cross-Post</h2><p>internal notes</p><ul><li>more internals</li></ul><h2>Next</h2><p>kept too</p>`

	out, err := r.StripInternalSection(in)

	require.NoError(t, err)
	assert.NotContains(t, out, "Reddit Cross-Post")
	assert.NotContains(t, out, "internal notes")
	assert.NotContains(t, out, "more internals")
	assert.Contains(t, out, "keep me")
	assert.Contains(t, out, "<h2>Next</h2>")
	assert.Contains(t, out, "kept too")
}

func TestStripInternalSectionNoMarker(t *testing.T) {
	r := testRewriter()
	in := `<h2>Regular</h2><p>content</p>`

	out, err := r.StripInternalSection(in)

	require.NoError(t, err)
	assert.Contains(t, out, "Regular")
	assert.Contains(t, out, "content")
}

func TestInjectPlannedLinks(t *testing.T) {
	r := testRewriter()
	in := `<p>Learn about sales strategy fundamentals before scaling.</p>`
	links := []core.PlannedLink{{Anchor: "sales strategy", Target: "/strategy/", Type: "pillar"}}

	out, err := r.InjectPlannedLinks(in, links)

	require.NoError(t, err)
	assert.Contains(t, out, `<a href="https://example.com/strategy/">sales strategy</a>`)
	assert.Contains(t, out, "fundamentals before scaling")
}

func TestInjectPlannedLinksIdempotent(t *testing.T) {
	r := testRewriter()
	in := `<p>Learn about sales strategy fundamentals. More on sales strategy later.</p>`
	links := []core.PlannedLink{{Anchor: "sales strategy", Target: "/strategy/", Type: "pillar"}}

	once, err := r.InjectPlannedLinks(in, links)
	require.NoError(t, err)
	twice, err := r.InjectPlannedLinks(once, links)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(once, `href="https://example.com/strategy/"`))
}

func TestInjectPlannedLinksSkipsHeadingsAndAnchors(t *testing.T) {
	r := testRewriter()
	in := `<h2>Sales Strategy Basics</h2><p><a href="/other">sales strategy</a> already linked.</p>`
	links := []core.PlannedLink{{Anchor: "sales strategy", Target: "/strategy/", Type: "pillar"}}

	out, err := r.InjectPlannedLinks(in, links)

	require.NoError(t, err)
	assert.NotContains(t, out, `href="https://example.com/strategy/"`)
	assert.Contains(t, out, "<h2>Sales Strategy Basics</h2>")
}

func TestInjectPlannedLinksPreservesCasing(t *testing.T) {
	r := testRewriter()
	in := `<p>Why Sales Strategy matters.</p>`
	links := []core.PlannedLink{{Anchor: "sales strategy", Target: "/strategy/", Type: "pillar"}}

	out, err := r.InjectPlannedLinks(in, links)

	require.NoError(t, err)
	assert.Contains(t, out, ">Sales Strategy</a>")
}

func TestInjectReactiveLinks(t *testing.T) {
	r := testRewriter()
	in := `<p>First you need to build pipeline coverage before setting quota.</p>`
	posts := []core.PostRef{
		{Title: "How to Build Pipeline Coverage", URL: "https://example.com/pipeline-coverage/"},
	}

	out, err := r.InjectReactiveLinks(in, posts)

	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.com/pipeline-coverage/"`)
}

func TestInjectReactiveLinksCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SiteURL = "https://example.com"
	cfg.MaxInjectedLinks = 1
	r := New(cfg)

	in := `<p>Build pipeline coverage and improve quota attainment this quarter.</p>`
	posts := []core.PostRef{
		{Title: "Build Pipeline Coverage", URL: "https://example.com/one/"},
		{Title: "Improve Quota Attainment", URL: "https://example.com/two/"},
	}

	out, err := r.InjectReactiveLinks(in, posts)

	require.NoError(t, err)
	total := strings.Count(out, "https://example.com/one/") + strings.Count(out, "https://example.com/two/")
	assert.Equal(t, 1, total)
}

func TestInjectReactiveLinksSkipsLinkedTargets(t *testing.T) {
	r := testRewriter()
	in := `<p><a href="https://example.com/pipeline-coverage/">already here</a> Build pipeline coverage now.</p>`
	posts := []core.PostRef{
		{Title: "Build Pipeline Coverage", URL: "https://example.com/pipeline-coverage/"},
	}

	out, err := r.InjectReactiveLinks(in, posts)

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "https://example.com/pipeline-coverage/"))
}

func TestLinkPhrases(t *testing.T) {
	r := testRewriter()

	phrases := r.linkPhrases("How to Build Pipeline Coverage")

	require.NotEmpty(t, phrases)
	assert.LessOrEqual(t, len(phrases), 3)
	for _, p := range phrases {
		assert.Greater(t, len(p), 8)
		assert.NotContains(t, strings.ToLower(" "+p+" "), " how ")
	}
}
