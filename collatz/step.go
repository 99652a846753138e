package collatz

import (
	"fmt"
	"math"
)

// next returns the successor of n > 1 and the number of sequence steps the hop covers.
// An odd n goes straight to (3n+1)/2, written as n + n/2 + 1 so the 3n+1
// intermediate never has to be representable.
func next(n uint64) (uint64, uint64, error) {
	if n%2 == 0 {
		return n / 2, 1, nil
	}
	half := n/2 + 1
	if half > math.MaxUint64-n {
		return 0, 0, fmt.Errorf("%w: successor of %d", ErrOverflow, n)
	}
	return n + half, 2, nil
}
