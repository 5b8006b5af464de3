package forcefield

import (
	"errors"
	"fmt"
)

// Domain errors for force field configuration.
var (
	// ErrIndexMismatch indicates the two sides resolved to different spring counts.
	ErrIndexMismatch = errors.New("forcefield: source and target point counts differ")

	// ErrIndexOutOfRange indicates an explicit index beyond its point set.
	ErrIndexOutOfRange = errors.New("forcefield: point index out of range")

	// ErrInvalidZeroLength indicates a configured zero length that is not a positive finite number.
	ErrInvalidZeroLength = errors.New("forcefield: zero length must be positive and finite")

	// ErrNoState indicates a force field constructed without its point set.
	ErrNoState = errors.New("forcefield: missing point set")
)

// FieldError wraps an error with the force field and operation that produced it.
type FieldError struct {
	Field   string
	Op      string
	Wrapped error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Field, e.Op, e.Wrapped)
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}
