package collatz

import "sync/atomic"

// memoTable maps n in [0, len(slots)) to its cycle length.
// A zero slot is unset; a slot moves from zero to its value once and stays there.
type memoTable struct {
	slots  []atomic.Uint32
	filled atomic.Int64
}

func newMemoTable(capacity int) *memoTable {
	return &memoTable{slots: make([]atomic.Uint32, capacity)}
}

func (m *memoTable) capacity() uint64 {
	return uint64(len(m.slots))
}

func (m *memoTable) covers(n uint64) bool {
	return n < m.capacity()
}

func (m *memoTable) load(n uint64) (uint64, bool) {
	if !m.covers(n) {
		return 0, false
	}
	v := m.slots[n].Load()
	return uint64(v), v != 0
}

// store writes v into the slot for n if the slot is still unset.
// It reports whether this call filled the slot.
func (m *memoTable) store(n, v uint64) bool {
	if !m.covers(n) || v == 0 || v > uint64(^uint32(0)) {
		return false
	}
	if m.slots[n].CompareAndSwap(0, uint32(v)) {
		m.filled.Add(1)
		return true
	}
	return false
}
