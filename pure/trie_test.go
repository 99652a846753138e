package pure_test

import (
	"testing"

	"github.com/on-the-ground/collatz_ive_go/pure"
	"github.com/stretchr/testify/assert"
)

func TestTrie_BasicUsage(t *testing.T) {
	trie := pure.NewTrie[string](4)

	// store a value
	trie.Store([]pure.ComparableOrString{"a", "b", "c"}, "final")

	// load it back
	val, ok := trie.Load([]pure.ComparableOrString{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "final", val)

	// wrong key path
	_, ok = trie.Load([]pure.ComparableOrString{"a", "b", "x"})
	assert.False(t, ok)
	_, ok = trie.Load([]pure.ComparableOrString{"z", "b", "c"})
	assert.False(t, ok)

	// overwrite existing
	trie.Store([]pure.ComparableOrString{"a", "b", "c"}, "updated")
	val, ok = trie.Load([]pure.ComparableOrString{"a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
}

func TestTrie_RotatesGenerations(t *testing.T) {
	trie := pure.NewTrie[int](2)
	key := func(k uint64) []pure.ComparableOrString { return []pure.ComparableOrString{k} }

	trie.Store(key(1), 1)
	trie.Store(key(2), 2)
	trie.Store(key(3), 3) // rotates: {1, 2} becomes the previous generation

	for _, k := range []uint64{1, 2, 3} {
		v, ok := trie.Load(key(k))
		assert.Truef(t, ok, "key %d should survive one rotation", k)
		assert.Equal(t, int(k), v)
	}
	assert.Equal(t, 1, trie.Len())

	trie.Store(key(4), 4)
	trie.Store(key(5), 5) // rotates again: {1, 2} is dropped

	_, ok := trie.Load(key(1))
	assert.False(t, ok)
	_, ok = trie.Load(key(2))
	assert.False(t, ok)
	for _, k := range []uint64{3, 4, 5} {
		_, ok := trie.Load(key(k))
		assert.Truef(t, ok, "key %d", k)
	}
}

func TestTrie_EmptyKeysPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on empty keys, but didn't panic")
		}
	}()
	trie := pure.NewTrie[int](2)
	trie.Load([]pure.ComparableOrString{})
}

func TestTrie_ZeroSizePanics(t *testing.T) {
	assert.Panics(t, func() {
		pure.NewTrie[int](0)
	})
}
