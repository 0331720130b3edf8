package sir

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidStep indicates a non-positive or non-finite time step.
	ErrInvalidStep = errors.New("sir: time step must be positive and finite")

	// ErrNegativeSteps indicates a negative step count.
	ErrNegativeSteps = errors.New("sir: step count must not be negative")

	// ErrNegativePopulation indicates a compartment below zero.
	ErrNegativePopulation = errors.New("sir: compartment population must not be negative")

	// ErrNegativeRate indicates beta or gamma below zero.
	ErrNegativeRate = errors.New("sir: rates must not be negative")

	// ErrNonFinite indicates a NaN or Inf input or state.
	ErrNonFinite = errors.New("sir: non-finite value")

	// ErrDegeneratePopulation indicates S+I+R == 0, where the model is undefined.
	ErrDegeneratePopulation = errors.New("sir: total population must be positive")
)

// StepError wraps an error with the point of the run where it was detected.
type StepError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
