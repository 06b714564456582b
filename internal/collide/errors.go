package collide

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPower is returned for a negative mass exponent.
	ErrInvalidPower = errors.New("collide: power must be >= 0")

	// ErrDidNotConverge is returned when a run hits its event ceiling
	// before the blocks stop colliding.
	ErrDidNotConverge = errors.New("collide: simulation did not converge")

	// ErrOutOfOrder is returned when a timeline key is not finite or not
	// strictly greater than the last key.
	ErrOutOfOrder = errors.New("collide: timeline keys must be finite and strictly increasing")
)

// SimulationError wraps a failure with the point in the run where it happened.
type SimulationError struct {
	Events  int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v (after %d events, t=%g)", e.Wrapped, e.Events, e.Time)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
