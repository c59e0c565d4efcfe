// Package cmd — publish command.
// Queues unpublished drafts from the backlog (or takes a single file)
// and runs each through the engine sequentially.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/blogpipe/config"
	"github.com/gaurav-prasanna/blogpipe/core"
	"github.com/gaurav-prasanna/blogpipe/core/extract"
	"github.com/gaurav-prasanna/blogpipe/core/quality"
	"github.com/gaurav-prasanna/blogpipe/core/render"
	"github.com/gaurav-prasanna/blogpipe/core/rewrite"
	"github.com/gaurav-prasanna/blogpipe/core/schema"
	"github.com/gaurav-prasanna/blogpipe/engine"
	"github.com/gaurav-prasanna/blogpipe/ingest"
	"github.com/gaurav-prasanna/blogpipe/state"
	"github.com/gaurav-prasanna/blogpipe/wordpress"
)

var (
	flagDraftsDir string
	flagFile      string
	flagLimit     int
)

// noopImages satisfies the image-pipeline contract when no image
// backend is configured; posts publish without a featured image.
type noopImages struct{}

func (noopImages) Generate(ctx context.Context, draft *core.Draft) ([]core.Image, error) {
	return nil, nil
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish queued drafts as WordPress drafts",
	Long: `Publish scans the drafts backlog in publish order (pillar pages, cluster
pages, then weekly batches), skips slugs already in the ledger, and runs
each remaining draft through the pipeline.

Examples:
  blogpipe publish --config config.yaml
  blogpipe publish --config config.yaml --limit 1
  blogpipe publish --config config.yaml --file drafts/week-01/day-01-foo.md`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&flagDraftsDir, "drafts-dir", "", "Drafts directory (overrides config)")
	publishCmd.Flags().StringVar(&flagFile, "file", "", "Publish a single draft file")
	publishCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum drafts to publish this run (0 = all)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDraftsDir != "" {
		cfg.DraftsDir = flagDraftsDir
	}
	if cfg.WordPressURL == "" {
		return fmt.Errorf("wordpress.url is not configured")
	}

	contentMap, err := config.LoadContentMap(cfg.ContentMap)
	if err != nil {
		return err
	}
	ledger, err := state.Load(cfg.StatePath)
	if err != nil {
		return err
	}

	publisher := wordpress.New(cfg.WordPressURL, cfg.WordPressUser, cfg.WordPressPassword, log)
	eng := newEngine(cfg, contentMap, publisher, ledger, log)
	ingester := ingest.New(contentMap, log)
	ctx := context.Background()

	if flagFile != "" {
		return publishOne(ctx, eng, ingester, flagFile)
	}

	items, err := ingester.Queue(cfg.DraftsDir, ledger.IsPublished)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to publish.")
		return nil
	}

	limit := flagLimit
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	fmt.Fprintf(os.Stdout, "Publishing %d of %d queued drafts\n", limit, len(items))

	var errCount int
	for i, item := range items[:limit] {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, limit, item.Path)
		if err := publishOne(ctx, eng, ingester, item.Path); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
		}
	}
	if errCount > 0 {
		return fmt.Errorf("%d/%d drafts failed", errCount, limit)
	}
	return nil
}

func publishOne(ctx context.Context, eng *engine.Engine, ingester *ingest.Ingester, path string) error {
	src, err := ingester.Load(path)
	if err != nil {
		return err
	}
	result, err := eng.Publish(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "  ✓ Draft post %d (%s)\n", result.PostID, result.Slug)
	for _, w := range result.Quality.Warnings {
		fmt.Fprintf(os.Stdout, "    ! %s\n", w)
	}
	return nil
}

// newEngine wires the pipeline stages from config.
func newEngine(cfg config.Config, contentMap config.ContentMap, publisher core.Publisher, ledger core.Ledger, log *logrus.Entry) *engine.Engine {
	rwCfg := rewrite.DefaultConfig()
	rwCfg.SiteURL = cfg.SiteURL
	rwCfg.CTAURL = cfg.CTAURL
	rwCfg.CTALabel = cfg.CTALabel
	rwCfg.MaxInjectedLinks = cfg.MaxInternalLinks

	return engine.New(engine.Deps{
		Config:    cfg,
		Extractor: extract.New(),
		Renderer:  render.NewHTMLRenderer(),
		Gate:      quality.New(quality.Config{MinInternalLinks: cfg.MinInternalLinks}),
		Rewriter:  rewrite.New(rwCfg),
		Schemas: schema.New(schema.Config{
			SiteURL:    cfg.SiteURL,
			OrgName:    cfg.OrgName,
			AuthorName: cfg.AuthorName,
			ContentMap: contentMap,
		}),
		Review:    render.NewReviewRenderer(),
		Publisher: publisher,
		Images:    noopImages{},
		Ledger:    ledger,
		Log:       log,
	})
}
