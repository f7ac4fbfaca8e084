package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/pagedump/internal/crawler"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "pagedump",
	Short: "Bulk downloader for numbered web pages with a resumable manifest",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
}

// Execute runs the CLI. Exit code 2 means the crawl finished but some pages
// are still missing, so automation can tell "retry me" from a hard failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		if errors.Is(err, crawler.ErrPartial) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
