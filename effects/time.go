package effects

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the wall-clock window an operation ran in.
type TimeSpan = timespan.TimeSpan

// SpanSince is the span from start until now.
func SpanSince(start time.Time) TimeSpan {
	return timespan.BetweenTimes(start, time.Now())
}

// SpanFields renders a span as structured log fields, start in RFC 3339 with
// nanoseconds and elapsed as a Go duration string.
func SpanFields(span TimeSpan) map[string]interface{} {
	return map[string]interface{}{
		"started": span.Start().UTC().Format(time.RFC3339Nano),
		"elapsed": span.Duration().String(),
	}
}
