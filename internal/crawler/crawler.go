package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/pagedump/internal/fetch"
	"github.com/brogergvhs/pagedump/internal/manifest"
	"github.com/brogergvhs/pagedump/internal/sequence"
)

// ErrPartial marks a run that finished but saved fewer pages than requested.
// Re-running against the same output folder retries only the missing ones.
var ErrPartial = errors.New("some pages were not downloaded")

// Config is the immutable parameter set for one run.
type Config struct {
	Template     string
	StartPage    int
	EndPage      int
	OutDir       string
	ManifestPath string
	Delay        time.Duration
}

type Summary struct {
	Downloaded int
	Total      int
}

func (s Summary) Complete() bool {
	return s.Downloaded == s.Total
}

// TargetError describes why a single target produced no saved page.
type TargetError struct {
	Reason FailReason
	Detail string
}

func (e *TargetError) Error() string {
	return e.Reason.String() + ": " + e.Detail
}

// Crawler walks the target sequence one page at a time over a shared client.
type Crawler struct {
	client *http.Client
	rep    Reporter
	sleep  func(time.Duration)
}

func New(client *http.Client, rep Reporter) *Crawler {
	if rep == nil {
		rep = NopReporter{}
	}

	return &Crawler{
		client: client,
		rep:    rep,
		sleep:  time.Sleep,
	}
}

// Run processes every target in order: skip if already on disk, otherwise
// fetch, gate, save. Failed targets are reported and passed over, so the
// loop always reaches the end and writes the manifest. Returns ErrPartial
// when any target is missing from the output afterwards.
func (c *Crawler) Run(ctx context.Context, cfg Config) (Summary, error) {
	targets, err := sequence.Build(cfg.Template, cfg.StartPage, cfg.EndPage)
	if err != nil {
		return Summary{}, err
	}

	total := len(targets)
	man := manifest.NewWriter()
	sum := Summary{Total: total}

	c.rep.RunStarted(total)

	for _, t := range targets {
		fileName := sequence.FileName(t.Index, total)
		path := filepath.Join(cfg.OutDir, fileName)

		// A previous run already saved this page. No request, no delay.
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			man.Append(fileName, t.URL)
			sum.Downloaded++
			c.rep.TargetSkipped(t, fileName)
			continue
		}

		text, terr := c.fetchPage(ctx, t.URL)
		if terr != nil {
			c.rep.TargetFailed(t, terr.Reason, terr.Detail)
			continue
		}

		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			c.rep.TargetFailed(t, ReasonWrite, err.Error())
			continue
		}

		man.Append(fileName, t.URL)
		sum.Downloaded++
		c.rep.TargetSaved(t, fileName, int64(len(text)))

		// Throttle only live requests.
		if cfg.Delay > 0 {
			c.sleep(cfg.Delay)
		}
	}

	if err := man.Flush(cfg.ManifestPath); err != nil {
		return sum, err
	}

	c.rep.RunFinished(sum)

	if !sum.Complete() {
		return sum, ErrPartial
	}

	return sum, nil
}

// fetchPage retrieves one URL and returns its body as UTF-8 text with
// invalid bytes replaced. Transport retries already happened inside the
// client by the time an error surfaces here.
func (c *Crawler) fetchPage(ctx context.Context, url string) (string, *TargetError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TargetError{Reason: ReasonTransport, Detail: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TargetError{Reason: ReasonTransport, Detail: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &TargetError{Reason: ReasonBadStatus, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	if !fetch.IsTextual(resp) {
		return "", &TargetError{Reason: ReasonContentType, Detail: resp.Header.Get("Content-Type")}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TargetError{Reason: ReasonTransport, Detail: err.Error()}
	}

	return strings.ToValidUTF8(string(raw), "�"), nil
}
