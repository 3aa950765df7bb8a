package mcmc

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for sampler construction and setup.
var (
	// ErrStepSize indicates a non-positive leapfrog step size.
	ErrStepSize = errors.New("mcmc: step size must be positive")

	// ErrMaxTreeDepth indicates a tree depth bound below 1.
	ErrMaxTreeDepth = errors.New("mcmc: max tree depth must be at least 1")

	// ErrTargetAcceptance indicates a target acceptance outside (0, 1).
	ErrTargetAcceptance = errors.New("mcmc: target acceptance must be in (0, 1)")

	// ErrDeltaMax indicates a non-positive divergence threshold.
	ErrDeltaMax = errors.New("mcmc: divergence threshold must be positive")

	// ErrNumSteps indicates a leapfrog step count below 1.
	ErrNumSteps = errors.New("mcmc: leapfrog step count must be at least 1")

	// ErrVariableMismatch indicates initial values whose key set differs from
	// the model's free-variable set.
	ErrVariableMismatch = errors.New("mcmc: initial values do not match model variables")

	// ErrEmptySpace indicates a model with no free variables.
	ErrEmptySpace = errors.New("mcmc: model has no free variables")
)

// MismatchError reports which variable names are missing from the initial
// values and which are unknown to the model.
type MismatchError struct {
	Missing []string
	Extra   []string
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %v", e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unknown %v", e.Extra))
	}
	return fmt.Sprintf("%s: %s", ErrVariableMismatch.Error(), strings.Join(parts, ", "))
}

func (e *MismatchError) Unwrap() error {
	return ErrVariableMismatch
}
