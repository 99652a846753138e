// Package pure memoizes pure functions in bounded tables.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// TableizeI2O2 wraps a two-argument function so that each distinct argument
// pair is computed once while it stays in the table. Arguments that are not
// comparable must implement fmt.Stringer; the string then serves as the key.
//
// The table is a Trie with two generations: when the current one is full it
// becomes the previous one and older entries are dropped.
//
// Example: memoizing whole range answers.
//
//	maxOf := pure.TableizeI2O2(engine.MaxCycleLength, 4096)
//	v, err := maxOf(1, 10) // computed
//	v, err = maxOf(1, 10)  // looked up
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
// Errors are results too and are cached the same way.
package pure
