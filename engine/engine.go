// Package engine orchestrates the publish pipeline: extraction, the
// quality gate, HTML rendering, structured-data assembly, content
// rewriting, backend publication, and ledger bookkeeping. Stages are
// injected as collaborators so each run is deterministic and testable.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gaurav-prasanna/blogpipe/config"
	"github.com/gaurav-prasanna/blogpipe/core"
	"github.com/gaurav-prasanna/blogpipe/core/extract"
	"github.com/gaurav-prasanna/blogpipe/core/quality"
	"github.com/gaurav-prasanna/blogpipe/core/render"
	"github.com/gaurav-prasanna/blogpipe/core/rewrite"
	"github.com/gaurav-prasanna/blogpipe/core/schema"
)

// ErrNoTitle aborts a run whose source yields no usable title.
var ErrNoTitle = errors.New("engine: draft has no title")

// Source is one unit of work for the engine.
type Source struct {
	Markdown    string
	Topic       core.Topic
	FrontMatter *extract.FrontMatter

	// Trusted sources (pre-authored drafts) never regenerate; their
	// gate failures are demoted to warnings.
	Trusted bool
}

// Result reports what one publish run produced.
type Result struct {
	PostID     int
	Slug       string
	Title      string
	Quality    core.QualityResult
	Validation schema.ValidationResult
	ReviewPath string
}

// Engine runs the pipeline.
type Engine struct {
	cfg       config.Config
	extractor *extract.Extractor
	renderer  *render.HTMLRenderer
	gate      *quality.Gate
	rewriter  *rewrite.Rewriter
	schemas   *schema.Builder
	review    *render.ReviewRenderer

	publisher core.Publisher
	images    core.ImageGenerator
	ledger    core.Ledger
	regen     core.Regenerator

	log *logrus.Entry
	now func() time.Time
}

// Deps carries the engine's collaborators. Publisher and Ledger are
// required; ImageGenerator and Regenerator are optional.
type Deps struct {
	Config    config.Config
	Extractor *extract.Extractor
	Renderer  *render.HTMLRenderer
	Gate      *quality.Gate
	Rewriter  *rewrite.Rewriter
	Schemas   *schema.Builder
	Review    *render.ReviewRenderer

	Publisher   core.Publisher
	Images      core.ImageGenerator
	Ledger      core.Ledger
	Regenerator core.Regenerator

	Log *logrus.Entry
	Now func() time.Time
}

// New creates an Engine.
func New(deps Deps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		cfg:       deps.Config,
		extractor: deps.Extractor,
		renderer:  deps.Renderer,
		gate:      deps.Gate,
		rewriter:  deps.Rewriter,
		schemas:   deps.Schemas,
		review:    deps.Review,
		publisher: deps.Publisher,
		images:    deps.Images,
		ledger:    deps.Ledger,
		regen:     deps.Regenerator,
		log:       log,
		now:       now,
	}
}

// Publish runs one source through the full pipeline and creates a draft
// post on the backend. The ledger records the slug only after the backend
// accepts the post.
func (e *Engine) Publish(ctx context.Context, src Source) (*Result, error) {
	log := e.log.WithField("run_id", uuid.NewString())

	draft := e.extractor.Extract(src.Markdown, src.Topic)
	if src.FrontMatter != nil {
		src.FrontMatter.Apply(draft)
	}
	if draft.Title == "" {
		return nil, ErrNoTitle
	}
	draft.Trusted = src.Trusted
	log = log.WithField("slug", draft.Slug)
	log.WithField("words", draft.WordCount).Info("extracted draft")

	result := e.gate.Check(draft, &src.Topic)
	if !result.Passes {
		draft, result = e.handleGateFailure(ctx, log, src, draft, result)
	}
	log.WithFields(logrus.Fields{
		"passes":   result.Passes,
		"failures": len(result.Failures),
		"warnings": len(result.Warnings),
	}).Info("quality gate")

	html, err := e.renderer.Render(draft.Markdown)
	if err != nil {
		return nil, fmt.Errorf("rendering draft %q: %w", draft.Slug, err)
	}
	draft.HTML = html

	images, err := e.generateImages(ctx, log, draft)
	if err != nil {
		return nil, err
	}

	validation, err := e.assembleAndRewrite(ctx, log, draft, images)
	if err != nil {
		return nil, err
	}

	postID, err := e.publishDraft(ctx, log, draft, images)
	if err != nil {
		return nil, err
	}

	publishedAt := e.now()
	reviewPath, err := e.writeReviewPacket(draft, result, publishedAt)
	if err != nil {
		log.WithError(err).Warn("review packet failed, continuing")
	}

	if err := e.ledger.RecordPublish(core.PublishRecord{
		Slug:        draft.Slug,
		Title:       draft.Title,
		PostID:      postID,
		Pillar:      draft.Pillar,
		Function:    draft.Function,
		PublishedAt: publishedAt,
	}); err != nil {
		return nil, fmt.Errorf("recording publish of %q: %w", draft.Slug, err)
	}

	log.WithField("post_id", postID).Info("published draft")
	return &Result{
		PostID:     postID,
		Slug:       draft.Slug,
		Title:      draft.Title,
		Quality:    result,
		Validation: validation,
		ReviewPath: reviewPath,
	}, nil
}

// Check runs extraction and the quality gate only, with no rendering or
// network activity.
func (e *Engine) Check(src Source) (*core.Draft, core.QualityResult, error) {
	draft := e.extractor.Extract(src.Markdown, src.Topic)
	if src.FrontMatter != nil {
		src.FrontMatter.Apply(draft)
	}
	if draft.Title == "" {
		return nil, core.QualityResult{}, ErrNoTitle
	}
	draft.Trusted = src.Trusted
	result := e.gate.Check(draft, &src.Topic)
	if src.Trusted {
		result = demoteFailures(result)
	}
	return draft, result, nil
}

// handleGateFailure applies the failure policy: trusted drafts get their
// failures demoted to warnings; untrusted drafts get one regeneration
// attempt when a Regenerator is configured, keeping whichever version
// the gate scores better.
func (e *Engine) handleGateFailure(ctx context.Context, log *logrus.Entry, src Source, draft *core.Draft, result core.QualityResult) (*core.Draft, core.QualityResult) {
	if src.Trusted {
		log.WithField("failures", result.Failures).Warn("trusted draft failed gate, demoting to warnings")
		return draft, demoteFailures(result)
	}
	if e.regen == nil {
		return draft, result
	}

	log.WithField("failures", result.Failures).Info("regenerating draft")
	markdown, err := e.regen.Regenerate(ctx, src.Topic, result.Failures)
	if err != nil {
		log.WithError(err).Warn("regeneration failed, keeping original draft")
		return draft, result
	}

	redraft := e.extractor.Extract(markdown, src.Topic)
	if src.FrontMatter != nil {
		src.FrontMatter.Apply(redraft)
	}
	redraft.Trusted = src.Trusted
	recheck := e.gate.Check(redraft, &src.Topic)
	if recheck.Passes || len(recheck.Failures) < len(result.Failures) {
		return redraft, recheck
	}
	return draft, result
}

func (e *Engine) generateImages(ctx context.Context, log *logrus.Entry, draft *core.Draft) ([]core.Image, error) {
	if e.images == nil {
		return nil, nil
	}
	images, err := e.images.Generate(ctx, draft)
	if err != nil {
		log.WithError(err).Warn("image generation failed, continuing without images")
		return nil, nil
	}
	return images, nil
}

// assembleAndRewrite runs the rewrite chain in its required order: CTA
// normalization, internal-section strip, schema embedding, planned-link
// injection, then reactive-link injection.
func (e *Engine) assembleAndRewrite(ctx context.Context, log *logrus.Entry, draft *core.Draft, images []core.Image) (schema.ValidationResult, error) {
	html, err := e.rewriter.NormalizeCTAs(draft.HTML)
	if err != nil {
		return schema.ValidationResult{}, fmt.Errorf("normalizing CTAs: %w", err)
	}
	html, err = e.rewriter.StripInternalSection(html)
	if err != nil {
		return schema.ValidationResult{}, fmt.Errorf("stripping internal section: %w", err)
	}
	graph := e.schemas.BuildGraph(e.postData(draft, images), draft.FAQItems, draft.HowToSteps)
	raw, err := schema.Marshal(graph)
	if err != nil {
		return schema.ValidationResult{}, err
	}
	validation := schema.Validate(raw)
	if !validation.Valid {
		log.WithField("errors", validation.Errors).Warn("schema graph invalid, embedding anyway")
	}
	html = schema.Inject(html, raw)

	html, err = e.rewriter.InjectPlannedLinks(html, draft.PlannedLinks)
	if err != nil {
		return schema.ValidationResult{}, fmt.Errorf("injecting planned links: %w", err)
	}

	published, err := e.publisher.ListPublished(ctx)
	if err != nil {
		log.WithError(err).Warn("listing published posts failed, skipping reactive links")
	} else {
		html, err = e.rewriter.InjectReactiveLinks(html, published)
		if err != nil {
			return schema.ValidationResult{}, fmt.Errorf("injecting reactive links: %w", err)
		}
	}

	draft.HTML = html
	return validation, nil
}

func (e *Engine) postData(draft *core.Draft, images []core.Image) schema.PostData {
	var imageURL string
	if len(images) > 0 {
		imageURL = images[0].Path
	}
	now := e.now().Format(time.RFC3339)
	return schema.PostData{
		URL:         fmt.Sprintf("%s/%s/", e.cfg.SiteURL, draft.Slug),
		Title:       draft.Title,
		Description: draft.MetaDescription,
		PublishedAt: now,
		ModifiedAt:  now,
		ImageURL:    imageURL,
		WordCount:   draft.WordCount,
		Pillar:      draft.Pillar,
		Function:    draft.Function,
		Keywords:    strings.Join(draft.Tags, ", "),
	}
}

// publishDraft creates the backend draft post plus its images and
// taxonomy. Any error here is fatal for this draft; the ledger is never
// touched on failure.
func (e *Engine) publishDraft(ctx context.Context, log *logrus.Entry, draft *core.Draft, images []core.Image) (int, error) {
	meta := map[string]string{}
	if draft.SEOTitle != "" {
		meta["seo_title"] = draft.SEOTitle
	}
	if draft.MetaDescription != "" {
		meta["meta_description"] = draft.MetaDescription
	}

	postID, err := e.publisher.CreateDraftPost(ctx, draft.Title, draft.HTML, draft.Slug, meta)
	if err != nil {
		return 0, fmt.Errorf("creating backend draft %q: %w", draft.Slug, err)
	}

	for i, img := range images {
		mediaID, err := e.publisher.UploadImage(ctx, img.Path, img.AltText)
		if err != nil {
			log.WithError(err).WithField("image", img.Path).Warn("image upload failed, continuing")
			continue
		}
		if i == 0 {
			if err := e.publisher.SetFeaturedImage(ctx, postID, mediaID); err != nil {
				log.WithError(err).Warn("setting featured image failed, continuing")
			}
		}
	}

	if len(draft.Categories) > 0 || len(draft.Tags) > 0 {
		if err := e.publisher.AssignTaxonomy(ctx, postID, draft.Categories, draft.Tags); err != nil {
			log.WithError(err).Warn("taxonomy assignment failed, continuing")
		}
	}
	return postID, nil
}

func (e *Engine) writeReviewPacket(draft *core.Draft, result core.QualityResult, publishedAt time.Time) (string, error) {
	if e.review == nil || e.cfg.ReviewDir == "" {
		return "", nil
	}
	data, err := e.review.Render(draft, result, publishedAt)
	if err != nil {
		return "", fmt.Errorf("rendering review packet: %w", err)
	}
	if err := os.MkdirAll(e.cfg.ReviewDir, 0o755); err != nil {
		return "", fmt.Errorf("creating review dir: %w", err)
	}
	path := filepath.Join(e.cfg.ReviewDir, draft.Slug+e.review.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing review packet: %w", err)
	}
	return path, nil
}

func demoteFailures(result core.QualityResult) core.QualityResult {
	return core.QualityResult{
		Passes:   true,
		Failures: nil,
		Warnings: append(result.Warnings, result.Failures...),
	}
}
