package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/brogergvhs/pagedump/internal/config"
	"github.com/brogergvhs/pagedump/internal/fetch"
	"github.com/brogergvhs/pagedump/internal/sequence"
	"github.com/brogergvhs/pagedump/internal/ui"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

func init() {
	checkCmd := &cobra.Command{
		Use:          "check",
		Short:        "Fetch the first page of the range and report what the server returns",
		Long:         "Validates the URL template before a long run: expands the range, fetches the first target, and reports the status, content type and page title.",
		SilenceUsage: true,
		RunE:         runCheck,
	}

	checkCmd.Flags().StringVar(&flagURL, "url", "", "URL template with a {n} page placeholder")
	checkCmd.Flags().IntVar(&flagStart, "start", 1, "first page number")
	checkCmd.Flags().IntVar(&flagEnd, "end", 100, "last page number (inclusive)")
	checkCmd.Flags().Float64Var(&flagTimeout, "timeout", 20.0, "per-request timeout, seconds")
	checkCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, _, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		URLTemplate:  flagURL,
		UserAgent:    flagUserAgent,
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
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSec = flagTimeout
	}

	if cfg.URLTemplate == "" {
		return fmt.Errorf("missing --url and no url_template in config")
	}

	targets, err := sequence.Build(cfg.URLTemplate, cfg.StartPage, cfg.EndPage)
	if err != nil {
		return err
	}

	first := targets[0]
	fmt.Printf("Range expands to %d pages; first target:\n  %s\n  would be saved as %s\n\n",
		len(targets), first.URL, sequence.FileName(first.Index, len(targets)))

	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:     cfg.Timeout(),
		UserAgent:   cfg.UserAgent,
		Retry:       fetch.DefaultRetryPolicy(),
		DebugLogger: ui.NewLogger(cfg.Debug),
	})

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, first.URL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	fmt.Println("Status:      ", resp.Status)
	fmt.Println("Content-Type:", resp.Header.Get("Content-Type"))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server answered %s, a crawl would skip this page", resp.Status)
	}
	if !fetch.IsTextual(resp) {
		return fmt.Errorf("not a text page, a crawl would reject it")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "(no title)"
	}
	fmt.Println("Title:       ", title)
	fmt.Println("\nLooks good. Run `pagedump crawl` to download the range.")

	return nil
}
