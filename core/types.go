// Package core defines the shared data model for the blogpipe pipeline
// and the contracts for its external collaborators (publishing backend,
// image pipeline, publish ledger). Each pipeline stage lives in its own
// sub-package and operates on these types.
package core

import (
	"context"
	"time"
)

// Format enumerates the supported article formats.
type Format string

const (
	FormatDataInsight Format = "data_insight"
	FormatHowTo       Format = "how_to"
	FormatMythBuster  Format = "myth_buster"
	FormatComparison  Format = "comparison"
	FormatCaseStudy   Format = "case_study"
	FormatPillarPage  Format = "pillar_page"
	FormatClusterPage Format = "cluster_page"
)

// Topic describes what an article is about. It is created by topic
// selection (or draft ingestion) and read-only for every downstream stage.
type Topic struct {
	Title             string
	PrimaryKeyword    string
	SecondaryKeywords []string
	Format            Format
	Pillar            string
	Function          string
	GrowthStage       string
}

// FAQItem is one question/answer pair extracted from the FAQ section.
type FAQItem struct {
	Question string
	Answer   string
}

// HowToStep is one ordered step of a how_to article.
type HowToStep struct {
	Title       string
	Description string
}

// PlannedLink is a pre-planned internal link supplied via front-matter.
// Target may be a relative path, resolved against the site base URL at
// injection time.
type PlannedLink struct {
	Anchor string
	Target string
	Type   string
}

// Draft is the work-in-progress document as it moves through the pipeline.
// It is created by the extractor, optionally enriched by front-matter
// overrides, and its HTML field is rewritten during the publish pass.
type Draft struct {
	Title           string
	Slug            string
	Markdown        string
	HTML            string
	KeyTakeaway     string
	TLDRBullets     []string
	FAQItems        []FAQItem
	HowToSteps      []HowToStep
	ComparisonTable string
	MetaDescription string
	SEOTitle        string
	WordCount       int
	Pillar          string
	Function        string
	Categories      []string
	Tags            []string
	PlannedLinks    []PlannedLink

	// Trusted marks drafts ingested from a pre-authored source. Quality
	// gate failures on trusted drafts are demoted to warnings and never
	// trigger regeneration.
	Trusted bool
}

// QualityResult is the quality gate verdict. Failures block unattended
// publication; warnings are advisory and never affect Passes.
type QualityResult struct {
	Passes   bool
	Failures []string
	Warnings []string
}

// Image is an artifact produced by the image pipeline collaborator.
// The first image of a set is the hero/featured image.
type Image struct {
	Path    string
	AltText string
}

// PostRef identifies an already-published post, used as a reactive-link
// candidate.
type PostRef struct {
	Title string
	URL   string
}

// PublishRecord is one entry in the publish ledger.
type PublishRecord struct {
	Slug        string
	Title       string
	PostID      int
	Pillar      string
	Function    string
	PublishedAt time.Time
}

// Publisher is the content-management backend contract. Implementations
// own their transient-error retries; errors surfaced to the caller are
// fatal and abort the pipeline for the current draft.
type Publisher interface {
	CreateDraftPost(ctx context.Context, title, html, slug string, meta map[string]string) (int, error)
	UpdatePost(ctx context.Context, id int, title, html, slug string, meta map[string]string) error
	UploadImage(ctx context.Context, path, altText string) (int, error)
	SetFeaturedImage(ctx context.Context, postID, mediaID int) error
	AssignTaxonomy(ctx context.Context, postID int, categories, tags []string) error
	ListPublished(ctx context.Context) ([]PostRef, error)
}

// ImageGenerator produces image artifacts for a draft.
type ImageGenerator interface {
	Generate(ctx context.Context, draft *Draft) ([]Image, error)
}

// Ledger tracks published slugs across runs.
type Ledger interface {
	IsPublished(slug string) bool
	RecordPublish(rec PublishRecord) error
}

// Regenerator produces a fresh markdown draft from quality-gate feedback.
// It is optional; without one, a failed gate is reported but the draft
// still proceeds to backend-draft creation for human review.
type Regenerator interface {
	Regenerate(ctx context.Context, topic Topic, feedback []string) (string, error)
}
