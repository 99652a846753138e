package collatz

import "errors"

// ErrInvalidArgument is returned for a cycle length or range bound below 1.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrOverflow is returned when a sequence climbs past math.MaxUint64.
var ErrOverflow = errors.New("sequence overflows uint64")

// ErrStepLimit is returned when a sequence needs more steps than the engine's limit.
var ErrStepLimit = errors.New("step limit exceeded")
