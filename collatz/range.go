package collatz

import "fmt"

// Range is an inclusive query [I, J] with the bounds in arbitrary order.
type Range struct {
	I, J uint64
}

// Normalize returns the bounds low first.
func (r Range) Normalize() (lo, hi uint64) {
	if r.I > r.J {
		return r.J, r.I
	}
	return r.I, r.J
}

// Validate reports ErrInvalidArgument when a bound is zero.
func (r Range) Validate() error {
	if r.I < 1 || r.J < 1 {
		return fmt.Errorf("%w: range bounds must be positive, got %d %d", ErrInvalidArgument, r.I, r.J)
	}
	return nil
}

// String renders the normalized range, so [10, 1] and [1, 10] share a key.
func (r Range) String() string {
	lo, hi := r.Normalize()
	return fmt.Sprintf("%d-%d", lo, hi)
}
