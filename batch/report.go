package batch

import (
	"time"

	"github.com/on-the-ground/collatz_ive_go/effects"
)

// Line outcomes passed to Recorder.ObserveLine.
const (
	OutcomeAnswered = "answered"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
)

// Recorder receives per-line observations from a Solver.
type Recorder interface {
	ObserveLine(outcome string)
	ObserveRange(elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLine(string)          {}
func (nopRecorder) ObserveRange(time.Duration) {}

// Report summarizes one Solve run.
type Report struct {
	Lines    int // every line read, blank ones included
	Answered int
	Skipped  int // blank lines
	Rejected int
	// Err holds one error per rejected line, combined with multierr.
	Err  error
	Span effects.TimeSpan
}

func (r *Report) count(outcome string) {
	switch outcome {
	case OutcomeAnswered:
		r.Answered++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeRejected:
		r.Rejected++
	}
}

// Fields renders the counts and the run span for a log entry.
func (r Report) Fields() map[string]interface{} {
	fields := effects.SpanFields(r.Span)
	fields["lines"] = r.Lines
	fields["answered"] = r.Answered
	fields["skipped"] = r.Skipped
	fields["rejected"] = r.Rejected
	return fields
}
