// Package diag ties log output to the test that produced it.
//
// A Store holds one diagnostic context per executing unit: the correlation id, suite name,
// test name and unit name of the test currently running there. A Logger wraps zap and
// attaches those entries to everything it writes, so every line emitted while a test is
// running can be traced back to that invocation.
package diag
