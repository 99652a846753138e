package pure

import (
	"fmt"
)

// ComparableOrStringer is an argument usable as a table key: either a
// comparable value or a fmt.Stringer whose String() stands in for it.
type ComparableOrStringer any

// ComparableOrString is what actually goes into the trie.
type ComparableOrString any

// TableizeI2O2 memoizes a two-argument function with two results, typically
// a value and an error. Both results are kept, so pureFn must fail the same
// way for the same arguments. Argument order is part of the key.
//
// At most about 2*maxTableSize argument pairs are remembered; see Trie.
// The returned function is safe for concurrent use. Two callers racing on the
// same new pair may both compute it.
func TableizeI2O2[I1, I2 ComparableOrStringer, O1, O2 any](
	pureFn func(I1, I2) (O1, O2),
	maxTableSize uint32,
) func(I1, I2) (O1, O2) {
	table := NewTrie[results[O1, O2]](maxTableSize)
	return func(i1 I1, i2 I2) (O1, O2) {
		keys := []ComparableOrString{keyOf(i1), keyOf(i2)}
		if res, ok := table.Load(keys); ok {
			return res.first, res.second
		}
		first, second := pureFn(i1, i2)
		table.Store(keys, results[O1, O2]{first: first, second: second})
		return first, second
	}
}

type results[O1, O2 any] struct {
	first  O1
	second O2
}

// keyOf prefers String() so that values such as slices-in-structs can key
// the table. Anything else is used as is and must be comparable, or the
// underlying sync.Map panics.
func keyOf(arg ComparableOrStringer) ComparableOrString {
	if s, ok := arg.(fmt.Stringer); ok {
		return s.String()
	}
	return arg
}
