// Package cmd — check command.
// Runs extraction and the quality gate against a draft and prints the
// report. No rendering, no network.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/blogpipe/config"
	"github.com/gaurav-prasanna/blogpipe/core/extract"
	"github.com/gaurav-prasanna/blogpipe/core/quality"
	"github.com/gaurav-prasanna/blogpipe/ingest"
)

var checkCmd = &cobra.Command{
	Use:   "check <draft-file>",
	Short: "Run the quality gate against a draft without publishing",
	Long: `Check extracts structured sections from a draft and scores it against
the editorial rubric, printing every failure and warning.

Examples:
  blogpipe check drafts/week-01/day-01-foo.md
  blogpipe check --config config.yaml drafts/week-01/day-01-foo.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	contentMap, err := config.LoadContentMap(cfg.ContentMap)
	if err != nil {
		return err
	}

	ingester := ingest.New(contentMap, log)
	src, err := ingester.Load(args[0])
	if err != nil {
		return err
	}

	extractor := extract.New()
	gate := quality.New(quality.Config{MinInternalLinks: cfg.MinInternalLinks})

	draft := extractor.Extract(src.Markdown, src.Topic)
	if src.FrontMatter != nil {
		src.FrontMatter.Apply(draft)
	}
	if draft.Title == "" {
		return fmt.Errorf("draft has no title: %s", args[0])
	}
	result := gate.Check(draft, &src.Topic)

	fmt.Fprintf(os.Stdout, "%s (%d words, %d FAQ items, %d TL;DR bullets)\n",
		draft.Title, draft.WordCount, len(draft.FAQItems), len(draft.TLDRBullets))

	if result.Passes {
		fmt.Fprintln(os.Stdout, "✓ Quality gate passed")
	} else {
		fmt.Fprintln(os.Stdout, "✗ Quality gate failed")
	}
	for _, f := range result.Failures {
		fmt.Fprintf(os.Stdout, "  ✗ %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stdout, "  ! %s\n", w)
	}
	if !result.Passes {
		return fmt.Errorf("%d quality failures", len(result.Failures))
	}
	return nil
}
