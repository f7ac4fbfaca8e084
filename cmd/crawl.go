package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/pagedump/internal/config"
	"github.com/brogergvhs/pagedump/internal/crawler"
	"github.com/brogergvhs/pagedump/internal/fetch"
	"github.com/brogergvhs/pagedump/internal/ui"
	"github.com/brogergvhs/pagedump/internal/util"

	"github.com/spf13/cobra"
)

var (
	// targets
	flagURL   string
	flagStart int
	flagEnd   int

	// output
	flagOutDir   string
	flagManifest string
	flagArchive  string

	// pacing
	flagDelay   float64
	flagTimeout float64

	// headers
	flagUserAgent string

	// rendering
	flagNoProgress bool
)

func init() {
	crawlCmd := &cobra.Command{
		Use:          "crawl",
		Short:        "Download the configured page range and write the filename-to-URL manifest",
		SilenceUsage: true,
		RunE:         runCrawl,
	}

	// targets
	crawlCmd.Flags().StringVar(&flagURL, "url", "", "URL template with a {n} page placeholder")
	crawlCmd.Flags().IntVar(&flagStart, "start", 1, "first page number")
	crawlCmd.Flags().IntVar(&flagEnd, "end", 100, "last page number (inclusive)")

	// output
	crawlCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "folder for the saved HTML pages")
	crawlCmd.Flags().StringVar(&flagManifest, "manifest", "", "path of the filename<TAB>url manifest")
	crawlCmd.Flags().StringVar(&flagArchive, "archive", "", "zip the dump here after a fully successful run")

	// pacing
	crawlCmd.Flags().Float64Var(&flagDelay, "delay", 0.8, "pause between downloads, seconds")
	crawlCmd.Flags().Float64Var(&flagTimeout, "timeout", 20.0, "per-request timeout, seconds")

	// headers
	crawlCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	// rendering
	crawlCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "line-per-page output instead of a progress bar")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		URLTemplate:  flagURL,
		OutDir:       flagOutDir,
		Manifest:     flagManifest,
		UserAgent:    flagUserAgent,
		Archive:      flagArchive,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("start") {
		cfg.StartPage = flagStart
	}
	if cmd.Flags().Changed("end") {
		cfg.EndPage = flagEnd
	}
	if cmd.Flags().Changed("delay") {
		cfg.DelaySec = flagDelay
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSec = flagTimeout
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}

	if cfg.URLTemplate == "" {
		return fmt.Errorf("missing --url and no url_template in config")
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	fmt.Println("Full config:")
	cfg.Print()
	fmt.Println()

	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:     cfg.Timeout(),
		UserAgent:   cfg.UserAgent,
		Retry:       fetch.DefaultRetryPolicy(),
		DebugLogger: logSvc,
	})

	util.SetupInterruptHandler(cfg.OutDir)

	var rep crawler.Reporter
	if cfg.Debug || flagNoProgress {
		rep = ui.NewConsoleReporter()
	} else {
		rep = ui.NewProgressReporter(logSvc)
	}

	start := time.Now()
	sum, runErr := crawler.New(client, rep).Run(cmd.Context(), crawler.Config{
		Template:     cfg.URLTemplate,
		StartPage:    cfg.StartPage,
		EndPage:      cfg.EndPage,
		OutDir:       cfg.OutDir,
		ManifestPath: cfg.Manifest,
		Delay:        cfg.Delay(),
	})
	if runErr != nil && !errors.Is(runErr, crawler.ErrPartial) {
		return runErr
	}

	fmt.Printf("Time: %s\n", time.Since(start).Round(time.Second))

	if errors.Is(runErr, crawler.ErrPartial) {
		return fmt.Errorf("downloaded %d/%d pages: %w", sum.Downloaded, sum.Total, crawler.ErrPartial)
	}

	if cfg.Archive != "" {
		if err := util.CreateArchive(cfg.OutDir, cfg.Archive); err != nil {
			return err
		}
		fmt.Println("Archive written to:", cfg.Archive)
	}

	return nil
}
