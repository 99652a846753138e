package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/on-the-ground/collatz_ive_go/batch"
	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/on-the-ground/collatz_ive_go/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ batch.Recorder = (*metrics.Metrics)(nil)

func TestEngineCountersFollowStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine := collatz.New()
	metrics.New(reg, engine)

	_, err := engine.CycleLength(3)
	require.NoError(t, err)
	_, err = engine.CycleLength(3)
	require.NoError(t, err)

	stats := engine.Stats()
	expected := `
# HELP collatz_memo_hits_total Cycle length lookups answered from the memo table or overflow cache
# TYPE collatz_memo_hits_total counter
collatz_memo_hits_total 1
# HELP collatz_memo_misses_total Cycle length calls that walked the sequence
# TYPE collatz_memo_misses_total counter
collatz_memo_misses_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"collatz_memo_hits_total", "collatz_memo_misses_total"))

	snap, err := metrics.Snapshot(reg)
	require.NoError(t, err)
	assert.Equal(t, float64(stats.Stores), snap["collatz_memo_stores_total"])
	assert.Equal(t, float64(stats.Filled), snap["collatz_memo_filled_slots"])
	assert.Equal(t, float64(collatz.DefaultCapacity), snap["collatz_memo_capacity_slots"])
}

func TestRecorderCountsLinesAndRanges(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine := collatz.New()
	m := metrics.New(reg, engine)

	var out strings.Builder
	_, err := batch.New(engine, batch.WithRecorder(m)).
		Solve(t.Context(), strings.NewReader("1 10\n\nbad\n10 1\n"), &out)
	require.NoError(t, err)

	expected := `
# HELP collatz_batch_lines_total Input lines by outcome
# TYPE collatz_batch_lines_total counter
collatz_batch_lines_total{outcome="answered"} 2
collatz_batch_lines_total{outcome="rejected"} 1
collatz_batch_lines_total{outcome="skipped"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "collatz_batch_lines_total"))

	snap, err := metrics.Snapshot(reg)
	require.NoError(t, err)
	assert.Equal(t, float64(2), snap["collatz_range_eval_seconds_count"])
	assert.Equal(t, float64(4), snap["collatz_batch_lines_total"])
}

func TestObserveRange(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, collatz.New())
	m.ObserveRange(3 * time.Millisecond)

	snap, err := metrics.Snapshot(reg)
	require.NoError(t, err)
	assert.Equal(t, float64(1), snap["collatz_range_eval_seconds_count"])
	assert.InDelta(t, 0.003, snap["collatz_range_eval_seconds_sum"], 1e-9)
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg, collatz.New())
	assert.Panics(t, func() { metrics.New(reg, collatz.New()) })
}
