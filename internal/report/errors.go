package report

import (
	"errors"
	"fmt"
)

// DivideByZeroError indicates a delta computed against a zero baseline.
type DivideByZeroError struct {
	Numerator float64
}

func (e *DivideByZeroError) Error() string {
	return fmt.Sprintf("difference of %g against a zero baseline", e.Numerator)
}

var (
	// ErrNoNumeric indicates a numeric presentation of a count-only stat.
	ErrNoNumeric = errors.New("stat has no numeric summary")
	// ErrUnknownLabel indicates a metric label absent from the stat.
	ErrUnknownLabel = errors.New("label not present in stat")
	// ErrUnknownKind indicates an unsupported presentation kind.
	ErrUnknownKind = errors.New("unknown report kind")
	// ErrShareTotal indicates group percentages that do not add up to 100.
	ErrShareTotal = errors.New("group percentages do not sum to 100")
)
