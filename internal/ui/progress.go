package ui

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/pagedump/internal/crawler"
	"github.com/brogergvhs/pagedump/internal/sequence"
	"github.com/brogergvhs/pagedump/internal/util"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressReporter renders the whole run as a single bar: processed targets
// against the total, with downloaded bytes and elapsed seconds appended.
// Failures are logged through the Logger; the bar keeps advancing because a
// failed target is still a processed target.
type ProgressReporter struct {
	log *Logger

	p   *mpb.Progress
	bar *mpb.Bar

	bytes atomic.Int64
	start time.Time
}

func NewProgressReporter(log *Logger) *ProgressReporter {
	return &ProgressReporter{
		log: log,
		p: mpb.New(
			mpb.WithWidth(52),
			mpb.WithOutput(os.Stdout),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
	}
}

func (r *ProgressReporter) RunStarted(total int) {
	r.start = time.Now()

	r.bar = r.p.New(
		int64(total),
		mpb.BarStyle().Rbound("]"),

		mpb.PrependDecorators(
			decor.Name("pages  "),
		),

		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + util.Human(r.bytes.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %ds", int(time.Since(r.start).Seconds()))
			}),
		),
	)
}

func (r *ProgressReporter) TargetSkipped(sequence.Target, string) {
	r.bar.Increment()
}

func (r *ProgressReporter) TargetSaved(_ sequence.Target, _ string, size int64) {
	r.bytes.Add(size)
	r.bar.Increment()
}

func (r *ProgressReporter) TargetFailed(t sequence.Target, reason crawler.FailReason, detail string) {
	r.log.Errorf("%s: %s (%s)\n", reason, t.URL, detail)
	r.bar.Increment()
}

func (r *ProgressReporter) RunFinished(s crawler.Summary) {
	r.bar.SetTotal(int64(s.Total), true)
	r.p.Wait()

	fmt.Printf("\nDone. Downloaded: %d/%d (%s)\n", s.Downloaded, s.Total, util.Human(r.bytes.Load()))
	if !s.Complete() {
		fmt.Println("Some pages are missing. Re-run with the same output folder to retry them.")
	}
}
