package framework

import (
	"fmt"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	// SetupFailures holds one entry per suite whose suite-start phase failed. None of
	// that suite's tests have results.
	SetupFailures []TestResult
}

type TestResult struct {
	TestID        TestID
	Errors        []error
	Skipped       bool
	CorrelationID string
	Duration      time.Duration
}

func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.SetupFailures) == 0
}

func (r *Results) merge(other Results) {
	r.Tests = append(r.Tests, other.Tests...)
	r.Failures = append(r.Failures, other.Failures...)
	r.SetupFailures = append(r.SetupFailures, other.SetupFailures...)
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of a test run to stdout.
func PrintResults(results Results) {
	skipped := 0
	for _, r := range results.Tests {
		if r.Skipped {
			skipped++
		}
	}
	fmt.Printf("Ran %d tests (%d failed, %d skipped)\n", len(results.Tests), len(results.Failures), skipped)
	if len(results.SetupFailures) > 0 {
		fmt.Println("Suites that could not be set up:")
		for _, f := range results.SetupFailures {
			fmt.Printf("  %s\n", f.TestID)
			for _, err := range f.Errors {
				fmt.Printf("    %s\n", err)
			}
		}
	}
	if len(results.Failures) > 0 {
		fmt.Println("Failed tests:")
		for _, f := range results.Failures {
			if f.CorrelationID != "" {
				fmt.Printf("  %s [TestID: %s]\n", f.TestID, f.CorrelationID)
			} else {
				fmt.Printf("  %s\n", f.TestID)
			}
		}
	}
}
