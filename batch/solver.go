// Package batch answers "i j" query lines with "i j v" result lines.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/on-the-ground/collatz_ive_go/effects"
	"github.com/on-the-ground/collatz_ive_go/effects/concurrency"
	"github.com/on-the-ground/collatz_ive_go/effects/log"
	"github.com/on-the-ground/collatz_ive_go/pure"
	"go.uber.org/multierr"
)

// EffectRange is the enum the solver registers its range workers under.
const EffectRange effects.EffectEnum = "collatz_ive_go_effect_enum_range"

const (
	DefaultBufferSize = 64
	DefaultTableSize  = 4096
)

// Evaluator computes the maximum cycle length of an inclusive range.
// *collatz.Engine satisfies it.
type Evaluator interface {
	MaxCycleLength(i, j uint64) (uint64, error)
}

type Option func(*Solver)

// WithWorkers sets the number of range workers. One or less solves in the
// calling goroutine.
func WithWorkers(n int) Option {
	return func(s *Solver) { s.workers = n }
}

// WithBufferSize sets how many lines may be in flight between reading and writing.
func WithBufferSize(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// WithTableSize bounds the number of distinct ranges whose answers are kept.
func WithTableSize(n uint32) Option {
	return func(s *Solver) {
		if n > 0 {
			s.tableSize = n
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Solver) {
		if r != nil {
			s.recorder = r
		}
	}
}

type Solver struct {
	workers    int
	bufferSize int
	tableSize  uint32
	recorder   Recorder

	evaluate func(lo, hi uint64) (uint64, error)
}

func New(engine Evaluator, opts ...Option) *Solver {
	s := &Solver{
		workers:    1,
		bufferSize: DefaultBufferSize,
		tableSize:  DefaultTableSize,
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.evaluate = pure.TableizeI2O2(engine.MaxCycleLength, s.tableSize)
	return s
}

// query is one input line on its way to the writer.
type query struct {
	lineNo int
	text   string
	rng    collatz.Range
	err    error

	// set on the concurrent path only
	resume <-chan effects.ResumableResult[uint64]
}

type rangeRequest struct {
	lo, hi uint64
}

func (r rangeRequest) PartitionKey() string {
	return collatz.Range{I: r.lo, J: r.hi}.String()
}

func newQuery(lineNo int, text string, tooLong bool) query {
	q := query{lineNo: lineNo, text: text}
	if tooLong {
		q.err = fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, MaxLineLength)
		return q
	}
	q.rng, q.err = ParseLine(text)
	return q
}

func (s *Solver) answer(rng collatz.Range) (uint64, error) {
	lo, hi := rng.Normalize()
	start := time.Now()
	v, err := s.evaluate(lo, hi)
	s.recorder.ObserveRange(time.Since(start))
	return v, err
}

// Solve reads queries from r and writes one result line per valid query to w,
// in input order.
//
// Lines that fail to parse or evaluate, or that exceed MaxLineLength, are
// logged, collected in Report.Err and skipped. Read and write errors and
// cancellation of ctx end the run and are returned; results answered before
// that are still written. A broken pipe on w ends the run quietly.
func (s *Solver) Solve(ctx context.Context, r io.Reader, w io.Writer) (Report, error) {
	start := time.Now()
	bw := bufio.NewWriter(w)

	var (
		rep Report
		err error
	)
	if s.workers > 1 {
		rep, err = s.solveConcurrently(ctx, r, bw)
	} else {
		rep, err = s.solveSequentially(ctx, r, bw)
	}
	// Answered lines are written even when the run ends early. A failed write
	// leaves the same sticky error in bw, which err already carries.
	if flushErr := bw.Flush(); flushErr != nil && !errors.Is(err, flushErr) {
		err = multierr.Append(err, fmt.Errorf("flush results: %w", flushErr))
	}
	if IsBrokenPipe(err) {
		log.Effect(ctx, log.LogDebug, "output closed by reader", nil)
		err = nil
	}
	rep.Span = effects.SpanSince(start)
	return rep, err
}

func (s *Solver) solveSequentially(ctx context.Context, r io.Reader, w io.Writer) (Report, error) {
	var rep Report
	lines := newLineReader(r)
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		text, tooLong, err := lines.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rep, fmt.Errorf("read queries: %w", err)
		}
		q := newQuery(lineNo, text, tooLong)
		var v uint64
		if q.err == nil {
			v, q.err = s.answer(q.rng)
		}
		if err := s.emit(ctx, w, &rep, q, v); err != nil {
			return rep, err
		}
	}
	return rep, ctx.Err()
}

// solveConcurrently hands each valid range to a pool of partitioned workers.
// A feeder reads and submits lines; the caller's goroutine writes results in
// the order the lines were submitted.
func (s *Solver) solveConcurrently(ctx context.Context, r io.Reader, w io.Writer) (Report, error) {
	var rep Report

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runCtx, endOfRangeHandler := effects.WithResumablePartitionableEffectHandler(
		runCtx,
		effects.NewEffectScopeConfig(s.bufferSize, s.workers),
		EffectRange,
		func(_ context.Context, req rangeRequest) (uint64, error) {
			return s.answer(collatz.Range{I: req.lo, J: req.hi})
		},
	)
	defer endOfRangeHandler()

	runCtx, endOfConcurrencyHandler := concurrency.WithEffectHandler(runCtx, 1)
	defer endOfConcurrencyHandler()

	queries := make(chan query, s.bufferSize)
	var readErr error
	concurrency.Effect(runCtx, func(ctx context.Context) {
		defer close(queries)
		readErr = s.feed(ctx, r, queries)
	})

	var writeErr error
	for q := range queries {
		if writeErr != nil {
			continue
		}
		var v uint64
		if q.err == nil {
			v, q.err = awaitRange(runCtx, q.resume)
		}
		if err := s.emit(ctx, w, &rep, q, v); err != nil {
			writeErr = err
			cancel()
		}
	}
	// queries is closed, so the feeder has returned and readErr is settled.
	if writeErr != nil {
		return rep, writeErr
	}
	if readErr != nil {
		return rep, readErr
	}
	return rep, ctx.Err()
}

func (s *Solver) feed(ctx context.Context, r io.Reader, out chan<- query) error {
	lines := newLineReader(r)
	for lineNo := 1; ; lineNo++ {
		text, tooLong, err := lines.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read queries: %w", err)
		}
		q := newQuery(lineNo, text, tooLong)
		if q.err == nil {
			lo, hi := q.rng.Normalize()
			q.resume = effects.PerformResumableEffect[rangeRequest, uint64](
				ctx, EffectRange, rangeRequest{lo: lo, hi: hi},
			)
		}
		select {
		case out <- q:
		case <-ctx.Done():
			return nil
		}
	}
}

// awaitRange reports a closed resume channel as the cancellation that caused it.
func awaitRange(ctx context.Context, resume <-chan effects.ResumableResult[uint64]) (uint64, error) {
	res, ok := <-resume
	if !ok {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("range worker stopped before answering")
	}
	return res.Value, res.Err
}

// emit writes the answer for q or records why there is none. Only errors that
// must end the run are returned.
func (s *Solver) emit(ctx context.Context, w io.Writer, rep *Report, q query, v uint64) error {
	rep.Lines++
	switch {
	case errors.Is(q.err, ErrBlankLine):
		s.observe(rep, OutcomeSkipped)
		return nil
	case errors.Is(q.err, context.Canceled), errors.Is(q.err, context.DeadlineExceeded):
		return q.err
	case q.err != nil:
		lineErr := fmt.Errorf("line %d: %w", q.lineNo, q.err)
		rep.Err = multierr.Append(rep.Err, lineErr)
		s.observe(rep, OutcomeRejected)
		log.Effect(ctx, log.LogWarn, "rejected query line", map[string]interface{}{
			"line":  q.lineNo,
			"text":  q.text,
			"error": q.err.Error(),
		})
		return nil
	}
	if err := FormatResult(w, q.rng, v); err != nil {
		return fmt.Errorf("write result of line %d: %w", q.lineNo, err)
	}
	s.observe(rep, OutcomeAnswered)
	return nil
}

func (s *Solver) observe(rep *Report, outcome string) {
	rep.count(outcome)
	s.recorder.ObserveLine(outcome)
}
