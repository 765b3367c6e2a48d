package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and analysis operations.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a state vector whose length does not
	// match the system's dimension.
	ErrDimensionMismatch = errors.New("dynamo: state dimension mismatch")

	// ErrUnstable indicates the integration became numerically unstable.
	ErrUnstable = errors.New("dynamo: integration unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrStepTooSmall indicates the adaptive timestep could not meet the
	// error tolerance within its retry budget.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrEmptySeries indicates an analysis routine received a zero-length series.
	ErrEmptySeries = errors.New("dynamo: empty series")

	// ErrEmptyGrid indicates a time or sweep grid with no points.
	ErrEmptyGrid = errors.New("dynamo: empty grid")

	// ErrGridNotIncreasing indicates time grid samples out of order.
	ErrGridNotIncreasing = errors.New("dynamo: time grid not strictly increasing")
)

// StepError wraps an error with the integration step it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
