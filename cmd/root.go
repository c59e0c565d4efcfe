// Package cmd implements the CLI commands for blogpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blogpipe",
	Short: "blogpipe — quality-gated content publishing pipeline",
	Long: `blogpipe runs pre-authored drafts through a quality gate, rewrites
their HTML (CTAs, internal links, structured data), and publishes them
as WordPress drafts.

Usage:
  blogpipe publish [flags]
  blogpipe check --file <draft> [flags]`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(log)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
