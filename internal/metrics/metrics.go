// Package metrics exposes engine and batch instrumentation through prometheus.
package metrics

import (
	"time"

	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatsSource is read on every scrape. *collatz.Engine satisfies it.
type StatsSource interface {
	Stats() collatz.Stats
}

// Metrics implements batch.Recorder.
type Metrics struct {
	lines     *prometheus.CounterVec
	rangeEval prometheus.Histogram
}

// New registers the engine counters of src and the batch instruments on reg.
func New(reg prometheus.Registerer, src StatsSource) *Metrics {
	factory := promauto.With(reg)

	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "collatz_memo_hits_total",
			Help: "Cycle length lookups answered from the memo table or overflow cache",
		},
		func() float64 { return float64(src.Stats().Hits) },
	)
	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "collatz_memo_misses_total",
			Help: "Cycle length calls that walked the sequence",
		},
		func() float64 { return float64(src.Stats().Misses) },
	)
	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "collatz_memo_stores_total",
			Help: "Memo slots filled",
		},
		func() float64 { return float64(src.Stats().Stores) },
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "collatz_memo_filled_slots",
			Help: "Memo slots currently holding a cycle length",
		},
		func() float64 { return float64(src.Stats().Filled) },
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "collatz_memo_capacity_slots",
			Help: "Memo table capacity",
		},
		func() float64 { return float64(src.Stats().Capacity) },
	)

	return &Metrics{
		lines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collatz_batch_lines_total",
				Help: "Input lines by outcome",
			},
			[]string{"outcome"}, // "answered", "skipped", "rejected"
		),
		rangeEval: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "collatz_range_eval_seconds",
				Help:    "Time to answer one range query",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs .. ~4s
			},
		),
	}
}

func (m *Metrics) ObserveLine(outcome string) {
	m.lines.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRange(elapsed time.Duration) {
	m.rangeEval.Observe(elapsed.Seconds())
}

// Snapshot flattens the gathered families into name -> value for logging.
// Counters and gauges are summed over their label sets; histograms report
// their sample count under name_count and their sum under name_sum.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[name] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[name] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[name+"_count"] += float64(m.GetHistogram().GetSampleCount())
				out[name+"_sum"] += m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}
