package framework

import "github.com/setianjay/api-contract-tests/diag"

// TestLogger receives progress notifications while suites run.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput diag.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                             {}
func (n nullTestLogger) TestError(TestID, error)                        {}
func (n nullTestLogger) TestFinished(TestID, bool, diag.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                     {}
