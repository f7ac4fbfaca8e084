package ui

import (
	"fmt"

	"github.com/brogergvhs/pagedump/internal/crawler"
	"github.com/brogergvhs/pagedump/internal/sequence"
	"github.com/brogergvhs/pagedump/internal/util"
)

type Logger struct {
	Debug bool
}

func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		fmt.Printf("[DEBUG] "+format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	fmt.Printf("[INFO] "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	fmt.Printf("[ERROR] "+format, args...)
}

// ConsoleReporter renders crawler events as one line per target. Used with
// --no-progress and in debug mode, where a redrawing bar would bury the
// debug output.
type ConsoleReporter struct {
	total int
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

func (r *ConsoleReporter) RunStarted(total int) {
	r.total = total
	fmt.Printf("Pages to fetch: %d\n\n", total)
}

func (r *ConsoleReporter) TargetSkipped(t sequence.Target, fileName string) {
	fmt.Printf("[%d/%d] already present: %s\n", t.Index, r.total, fileName)
}

func (r *ConsoleReporter) TargetSaved(t sequence.Target, fileName string, size int64) {
	fmt.Printf("[%d/%d] OK -> %s (%s)\n", t.Index, r.total, fileName, util.Human(size))
}

func (r *ConsoleReporter) TargetFailed(t sequence.Target, reason crawler.FailReason, detail string) {
	fmt.Printf("[%d/%d] %s: %s (%s)\n", t.Index, r.total, reason, t.URL, detail)
}

func (r *ConsoleReporter) RunFinished(s crawler.Summary) {
	fmt.Printf("\nDone. Downloaded: %d/%d\n", s.Downloaded, s.Total)
	if !s.Complete() {
		fmt.Println("Some pages are missing. Re-run with the same output folder to retry them.")
	}
}
