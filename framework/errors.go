package framework

import (
	"errors"
	"fmt"
)

// Phase names one of the four lifecycle points of a suite.
type Phase string

const (
	PhaseSuiteStart Phase = "suite-start"
	PhaseTestStart  Phase = "test-start"
	PhaseTestEnd    Phase = "test-end"
	PhaseSuiteEnd   Phase = "suite-end"
)

var (
	ErrMissingDisplayName = errors.New("test case has no display name")
	ErrMissingAction      = errors.New("test case has no action")
)

// SetupError is a failure in a suite-start or test-start phase. It is fatal for that
// scope: the suite's tests, or the single test, do not run.
type SetupError struct {
	Phase Phase
	Scope string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s failed for %s: %s", e.Phase, e.Scope, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
