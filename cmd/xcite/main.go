// Package main provides the xcite CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// logMode overrides the configured log_mode when set
	logMode string
	// noCache bypasses the page cache for this run
	noCache bool
)

// log is set up in PersistentPreRunE; commands may use it freely.
var log = logger.Nop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xcite",
	Short: "Compare two researchers' publications through OpenAlex",
	Long: `xcite compares the publication records of two researchers.

For each pair of authors it finds:
  - works they co-authored
  - works of one that cite works of the other
  - how both outputs evolved year by year
  - their most frequent collaborators, drawn as a graph

Works come from the OpenAlex API and are cached locally.
All commands output JSON by default; use --human for text.

Environment Variables:
  OPENALEX_MAILTO   Email sent to OpenAlex to join the polite pool
  OPENALEX_API_KEY  Premium API key (optional)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { log.Sync() },
}

func init() {
	// Load .env file if present (for OPENALEX_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "", "Log mode: quiet, dev, or prod (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Fetch every page from OpenAlex, ignoring the page cache")
	rootCmd.Version = Version
}

func setupLogger(cmd *cobra.Command, args []string) error {
	mode := logMode
	if mode == "" {
		if s, err := loadSettings(); err == nil {
			mode = s.LogMode
		}
	}
	l, err := logger.New(mode)
	if err != nil {
		return err
	}
	log = l
	return nil
}
