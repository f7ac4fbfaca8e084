package crawler

import (
	"github.com/brogergvhs/pagedump/internal/sequence"
)

// FailReason classifies a target that produced no saved page this run.
type FailReason int

const (
	ReasonTransport FailReason = iota
	ReasonBadStatus
	ReasonContentType
	ReasonWrite
)

func (r FailReason) String() string {
	switch r {
	case ReasonTransport:
		return "request failed"
	case ReasonBadStatus:
		return "bad status"
	case ReasonContentType:
		return "not a text page"
	case ReasonWrite:
		return "write failed"
	default:
		return "unknown"
	}
}

// Reporter receives one event per target outcome plus the run boundaries.
// The loop itself never prints; console and progress-bar renderers live in
// internal/ui, and tests plug in a recorder.
type Reporter interface {
	RunStarted(total int)
	TargetSkipped(t sequence.Target, fileName string)
	TargetSaved(t sequence.Target, fileName string, size int64)
	TargetFailed(t sequence.Target, reason FailReason, detail string)
	RunFinished(s Summary)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) RunStarted(int)                                   {}
func (NopReporter) TargetSkipped(sequence.Target, string)            {}
func (NopReporter) TargetSaved(sequence.Target, string, int64)       {}
func (NopReporter) TargetFailed(sequence.Target, FailReason, string) {}
func (NopReporter) RunFinished(Summary)                              {}
