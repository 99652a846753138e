// Package cache holds the bounded overflow caches an Engine can consult for
// values past its memo table.
package cache

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

// Ristretto is a cost-bounded cycle length cache. Every entry costs 1, so
// maxEntries is the number of lengths it keeps. Sets are applied
// asynchronously and may be dropped under contention.
type Ristretto struct {
	cache *ristretto.Cache[uint64, uint64]
}

func NewRistretto(maxEntries int64) (*Ristretto, error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("overflow cache needs at least one entry, got %d", maxEntries)
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, uint64]{
		NumCounters:        10 * maxEntries, // keys to track frequency of
		MaxCost:            maxEntries,
		BufferItems:        64, // keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fail to create ristretto cache: %w", err)
	}
	return &Ristretto{cache: c}, nil
}

func (r *Ristretto) Get(n uint64) (uint64, bool) {
	return r.cache.Get(n)
}

func (r *Ristretto) Set(n, length uint64) {
	r.cache.Set(n, length, 1)
}

// Wait blocks until buffered Sets have been applied.
func (r *Ristretto) Wait() {
	r.cache.Wait()
}

func (r *Ristretto) Close() {
	r.cache.Close()
}
