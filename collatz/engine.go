package collatz

import (
	"fmt"
	"sync/atomic"
)

// DefaultCapacity is the number of memo slots an Engine gets without WithCapacity.
const DefaultCapacity = 100

// OverflowCache caches cycle lengths for values the memo table does not cover.
// Implementations must be safe for concurrent use and may drop entries.
type OverflowCache interface {
	Get(n uint64) (uint64, bool)
	Set(n, length uint64)
}

// Option configures an Engine.
type Option func(*Engine)

// WithCapacity sets the number of memo slots. Values below 1 are ignored.
func WithCapacity(capacity int) Option {
	return func(e *Engine) {
		if capacity > 0 {
			e.memo = newMemoTable(capacity)
		}
	}
}

// WithStepLimit makes CycleLength fail with ErrStepLimit once a walk exceeds
// limit steps. Zero disables the bound.
func WithStepLimit(limit uint64) Option {
	return func(e *Engine) {
		e.stepLimit = limit
	}
}

// WithOverflowCache consults cache for values at or above the memo capacity.
func WithOverflowCache(cache OverflowCache) Option {
	return func(e *Engine) {
		e.overflow = cache
	}
}

// Engine computes cycle lengths backed by a write-once memo table.
// It is safe for concurrent use.
type Engine struct {
	memo      *memoTable
	overflow  OverflowCache
	stepLimit uint64

	hits   atomic.Uint64
	misses atomic.Uint64
	stores atomic.Uint64
}

// New returns an Engine with DefaultCapacity memo slots unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.memo == nil {
		e.memo = newMemoTable(DefaultCapacity)
	}
	return e
}

// Stats is a point-in-time view of the engine's cache counters.
type Stats struct {
	Hits     uint64 // lookups answered by the memo table or overflow cache
	Misses   uint64 // CycleLength calls that had to walk the sequence
	Stores   uint64 // memo slots filled
	Capacity uint64
	Filled   uint64
}

func (e *Engine) Stats() Stats {
	return Stats{
		Hits:     e.hits.Load(),
		Misses:   e.misses.Load(),
		Stores:   e.stores.Load(),
		Capacity: e.memo.capacity(),
		Filled:   uint64(e.memo.filled.Load()),
	}
}

type visit struct {
	n  uint64
	at uint64 // steps taken from the start value before reaching n
}

// CycleLength returns the cycle length of n.
//
// The walk stops at 1 or at the first cached value. Every value passed on the
// way has length total-at and is written back to the memo table or the
// overflow cache. The step limit applies to the whole sequence, cached part
// included, so the answer does not depend on what was computed before.
func (e *Engine) CycleLength(n uint64) (uint64, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: cycle length of %d", ErrInvalidArgument, n)
	}
	if n == 1 {
		return 1, nil
	}
	if v, ok := e.cached(n); ok {
		e.hits.Add(1)
		if err := e.checkLimit(n, v); err != nil {
			return 0, err
		}
		return v, nil
	}
	e.misses.Add(1)

	var (
		trail []visit
		steps uint64
		tail  uint64
		cur   = n
	)
	for {
		if cur == 1 {
			tail = 1
			break
		}
		if cur != n {
			if v, ok := e.cached(cur); ok {
				e.hits.Add(1)
				tail = v
				break
			}
		}
		trail = append(trail, visit{n: cur, at: steps})
		succ, cost, err := next(cur)
		if err != nil {
			return 0, fmt.Errorf("cycle length of %d: %w", n, err)
		}
		steps += cost
		if e.stepLimit > 0 && steps > e.stepLimit {
			return 0, e.checkLimit(n, steps+1)
		}
		cur = succ
	}

	total := steps + tail
	for _, v := range trail {
		e.remember(v.n, total-v.at)
	}
	if err := e.checkLimit(n, total); err != nil {
		return 0, err
	}
	return total, nil
}

// checkLimit fails when a sequence of the given cycle length takes more steps
// than the limit. A length of k means k-1 steps down to 1.
func (e *Engine) checkLimit(n, length uint64) error {
	if e.stepLimit > 0 && length-1 > e.stepLimit {
		return fmt.Errorf("%w: %d needs more than %d steps", ErrStepLimit, n, e.stepLimit)
	}
	return nil
}

// MaxCycleLength returns the largest cycle length in the inclusive range
// between i and j, given in either order.
func (e *Engine) MaxCycleLength(i, j uint64) (uint64, error) {
	r := Range{I: i, J: j}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	lo, hi := r.Normalize()

	var best uint64
	for n := lo; ; n++ {
		v, err := e.CycleLength(n)
		if err != nil {
			return 0, fmt.Errorf("max cycle length of %v: %w", r, err)
		}
		if v > best {
			best = v
		}
		if n == hi {
			break
		}
	}
	return best, nil
}

func (e *Engine) cached(n uint64) (uint64, bool) {
	if e.memo.covers(n) {
		return e.memo.load(n)
	}
	if e.overflow != nil {
		return e.overflow.Get(n)
	}
	return 0, false
}

func (e *Engine) remember(n, length uint64) {
	if e.memo.covers(n) {
		if e.memo.store(n, length) {
			e.stores.Add(1)
		}
		return
	}
	if e.overflow != nil {
		e.overflow.Set(n, length)
	}
}
