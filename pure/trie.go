package pure

import (
	"sync"
	"sync/atomic"
)

// Trie is a bounded memo store keyed by argument tuples.
//
// Entries live in two generations. When the current generation holds maxSize
// entries it is demoted to previous, the old previous is dropped, and a fresh
// current starts. Load consults current first, then previous.
type Trie[O any] struct {
	current  atomic.Pointer[sync.Map]
	previous atomic.Pointer[sync.Map]
	size     atomic.Uint32
	maxSize  uint32
	rotateMu sync.Mutex
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.current.Store(&sync.Map{})
	t.previous.Store(&sync.Map{})
	return t
}

func (t *Trie[O]) Load(keys []ComparableOrString) (O, bool) {
	for _, gen := range []*sync.Map{t.current.Load(), t.previous.Load()} {
		if v, ok := lookup(gen, keys); ok {
			return v.(O), true
		}
	}
	var zero O
	return zero, false
}

func (t *Trie[O]) Store(keys []ComparableOrString, value O) {
	if t.size.Add(1) > t.maxSize {
		t.rotate()
	}
	m, k := traverse(t.current.Load(), keys)
	m.Store(k, value)
}

// Len is the number of stores since the last rotation.
func (t *Trie[O]) Len() int {
	return int(t.size.Load())
}

func (t *Trie[O]) rotate() {
	t.rotateMu.Lock()
	defer t.rotateMu.Unlock()
	if t.size.Load() <= t.maxSize {
		return
	}
	t.previous.Store(t.current.Load())
	t.current.Store(&sync.Map{})
	t.size.Store(1)
}

func lookup(root *sync.Map, keys []ComparableOrString) (any, bool) {
	if len(keys) == 0 {
		panic("lookup: empty keys")
	}
	m := root
	for _, k := range keys[:len(keys)-1] {
		v, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		m = v.(*sync.Map)
	}
	return m.Load(keys[len(keys)-1])
}

func traverse(root *sync.Map, keys []ComparableOrString) (*sync.Map, any) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}

	m := root
	for _, k := range keys[:length-1] {
		v, _ := m.LoadOrStore(k, &sync.Map{})
		m = v.(*sync.Map)
	}
	return m, keys[length-1]
}
