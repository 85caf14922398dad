// Package framework runs contract test suites against HTTP APIs.
//
// The general model is:
//
// 1. A Suite names a group of tests that share a base address, an HTTP session and a set
// of optional hooks. Tests run one at a time, ordered by their declared Order.
//
// 2. A Controller drives a suite through four fixed phases: suite-start, test-start,
// test-end and suite-end. A failure in a start phase is a SetupError and prevents the
// affected tests from running. Failures in an end phase are logged and never change a
// test's outcome.
//
// 3. Each test receives a *T, which is similar to Go's *testing.T: it accumulates failures
// reported through testify's assert and require packages, and it gives the test access to
// the request pipeline, the session and the JSON codec.
//
// Every test run opens a diagnostic context with a unique correlation id, and all log
// output of the test carries that id until the context is closed.
package framework
