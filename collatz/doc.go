// Package collatz computes Collatz cycle lengths.
//
// The cycle length of n counts the steps needed for the sequence
//
//	n -> n/2    (n even)
//	n -> 3n+1   (n odd)
//
// to reach 1, with 1 itself counted, so CycleLength(1) == 1 and
// CycleLength(3) == 8 (3 10 5 16 8 4 2 1).
//
// An odd value is always followed by an even one, so the Engine folds the pair
// into a single hop to (3n+1)/2 with a cost of two steps.
//
// An Engine owns a fixed-capacity memo table for small inputs. Each slot is
// written at most once and is never evicted. Values at or above the capacity
// can be cached in an optional OverflowCache, which is allowed to forget.
//
// Example:
//
//	eng := collatz.New(collatz.WithCapacity(1 << 16))
//	v, err := eng.MaxCycleLength(1, 10) // v == 20
package collatz
