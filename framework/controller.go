package framework

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/setianjay/api-contract-tests/diag"
	"github.com/setianjay/api-contract-tests/jsoncodec"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/transport"
)

// State is the position of a Controller in the suite lifecycle.
type State int

const (
	Uninitialized State = iota
	SuiteReady
	TestSetup
	TestRunning
	TestTorndown
	SuiteTorndown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case SuiteReady:
		return "SuiteReady"
	case TestSetup:
		return "TestSetup"
	case TestRunning:
		return "TestRunning"
	case TestTorndown:
		return "TestTorndown"
	case SuiteTorndown:
		return "SuiteTorndown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var unitCounter atomic.Int64

func nextUnit() string {
	return fmt.Sprintf("worker-%d", unitCounter.Add(1))
}

// Environment holds the process-wide collaborators shared by every suite in a run.
// Zero-valued fields are replaced with working defaults by NewController.
type Environment struct {
	Codecs       *jsoncodec.Provider
	Clients      *transport.Registry
	Store        *diag.Store
	Logger       *zap.Logger
	Transport    transport.Config
	UserAgent    string
	Metrics      *request.Metrics
	MaskedFields []string
	Filter       Filter
	TestLogger   TestLogger
}

func (env Environment) withDefaults() Environment {
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	if env.Codecs == nil {
		env.Codecs = jsoncodec.NewProvider(env.Logger)
	}
	if env.Clients == nil {
		env.Clients = transport.NewRegistry()
	}
	if env.Store == nil {
		env.Store = diag.NewStore()
	}
	if env.Transport == (transport.Config{}) {
		env.Transport = transport.DefaultConfig()
	}
	if env.TestLogger == nil {
		env.TestLogger = nullTestLogger{}
	}
	return env
}

// Controller drives one Suite through its lifecycle:
//
//	suite-start, then for each test (test-start, action, test-end), then suite-end.
//
// A Controller is used by one goroutine at a time.
type Controller struct {
	env     Environment
	suite   Suite
	unit    string
	state   State
	session *request.Session
	logger  *diag.Logger
	results Results
	pending *transport.Config
}

func NewController(env Environment, suite Suite) *Controller {
	env = env.withDefaults()
	unit := nextUnit()
	return &Controller{
		env:     env,
		suite:   suite,
		unit:    unit,
		session: request.NewSession(env.UserAgent),
		logger:  diag.NewLogger(env.Logger.Named(suite.Name), env.Store, unit),
	}
}

// RunSuites runs each suite to completion in order and returns the combined results.
func RunSuites(env Environment, suites ...Suite) Results {
	var results Results
	for _, s := range suites {
		results.merge(NewController(env, s).Run())
	}
	return results
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Session() *request.Session { return c.session }

// Unit is the executing-unit key under which this suite's diagnostic context is stored.
func (c *Controller) Unit() string { return c.unit }

func (c *Controller) Suite() Suite { return c.suite }

func (c *Controller) Logger() *diag.Logger { return c.logger }

func (c *Controller) suiteID() TestID {
	return TestID{Path: []string{c.suite.Name}}
}

func (c *Controller) newScope(id TestID, name string) *T {
	return newT(c, id, name, nil)
}

// Run executes the whole suite lifecycle. A suite-start failure is recorded as a single
// SetupFailures entry and no test in the suite runs. When the filter excludes every test,
// no phase runs at all.
func (c *Controller) Run() Results {
	tests := orderedTests(c.suite.Tests)
	if len(tests) > 0 && !c.anySelected(tests) {
		for _, tc := range tests {
			id := c.suiteID().plus(tc.Name)
			c.env.TestLogger.TestStarted(id)
			c.env.TestLogger.TestSkipped(id, filteredReason)
		}
		return c.results
	}

	scope := c.newScope(c.suiteID(), "")
	if err := c.startSuite(scope); err != nil {
		c.env.TestLogger.TestError(scope.id, err)
		c.results.SetupFailures = append(c.results.SetupFailures, TestResult{
			TestID: scope.id,
			Errors: []error{err},
		})
		c.endSuite(scope)
		return c.results
	}
	if scope.skipped {
		for _, tc := range tests {
			id := scope.id.plus(tc.Name)
			c.env.TestLogger.TestStarted(id)
			c.env.TestLogger.TestSkipped(id, scope.skipReason)
			c.results.Tests = append(c.results.Tests, TestResult{TestID: id, Skipped: true})
		}
		c.endSuite(scope)
		return c.results
	}
	for _, tc := range tests {
		c.runTest(tc)
	}
	c.endSuite(scope)
	return c.results
}

func (c *Controller) startSuite(scope *T) error {
	c.env.Codecs.Get()
	cfg := c.env.Transport
	c.pending = &cfg
	defer func() { c.pending = nil }()

	if err := scope.runHook(PhaseSuiteStart, c.suite.Hooks.BeforeSuite); err != nil {
		return &SetupError{Phase: PhaseSuiteStart, Scope: c.suite.Name, Err: err}
	}
	c.env.Clients.Apply(*c.pending)
	c.state = SuiteReady
	c.logger.Debug("Suite initialized", zap.String("baseURL", c.suite.BaseURL))
	return nil
}

func (c *Controller) runTest(tc TestCase) {
	id := c.suiteID().plus(tc.Name)
	c.env.TestLogger.TestStarted(id)
	if !c.selected(id) {
		c.env.TestLogger.TestSkipped(id, filteredReason)
		return
	}

	capture := &diag.Capture{}
	t := newT(c, id, tc.Name, capture)
	started := time.Now()

	c.state = TestSetup
	if err := c.startTest(t, tc); err != nil {
		setupErr := &SetupError{Phase: PhaseTestStart, Scope: id.String(), Err: err}
		t.failed = true
		t.errors = append(t.errors, setupErr)
		c.env.TestLogger.TestError(id, setupErr)
	} else if !t.skipped {
		c.state = TestRunning
		t.run(tc.Action)
	}

	c.state = TestTorndown
	c.endTest(t, tc, started)

	result := TestResult{
		TestID:        id,
		Errors:        t.errors,
		Skipped:       t.skipped && !t.failed,
		CorrelationID: t.correlationID,
		Duration:      time.Since(started),
	}
	c.results.Tests = append(c.results.Tests, result)
	if t.failed {
		c.results.Failures = append(c.results.Failures, result)
	}
	if result.Skipped {
		c.env.TestLogger.TestSkipped(id, t.skipReason)
	} else {
		c.env.TestLogger.TestFinished(id, t.failed, capture.Output())
	}
}

func (c *Controller) startTest(t *T, tc TestCase) error {
	if strings.TrimSpace(tc.Name) == "" {
		return ErrMissingDisplayName
	}
	if tc.Action == nil {
		return ErrMissingAction
	}
	c.session.ResetTemplate()
	c.session.DiscardResponse()
	c.session.SetTestName(tc.Name)
	if err := t.runHook(PhaseTestStart, c.suite.Hooks.BeforeTest); err != nil || t.skipped {
		return err
	}
	t.correlationID = t.logger.LogTestStart(c.suite.Name, tc.Name)
	return nil
}

// endTest always runs after a test, whatever the outcome. Nothing it does can change
// the test's result. The display name is already cleared when the AfterTest hook runs;
// the hook can still read it from T.Name.
func (c *Controller) endTest(t *T, tc TestCase, started time.Time) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Unexpected panic during test teardown", zap.Any("panic", r))
		}
	}()
	c.session.DiscardResponse()
	c.session.DiscardTemplate()
	c.session.SetTestName("")
	if err := t.runHook(PhaseTestEnd, c.suite.Hooks.AfterTest); err != nil {
		t.logger.Error("Test teardown hook failed", zap.String("error", diag.FormatError(err)))
	}
	if t.correlationID != "" {
		t.logger.LogPerformance(tc.Name, time.Since(started))
	}
	t.logger.LogTestEnd(c.suite.Name, tc.Name)
}

func (c *Controller) endSuite(scope *T) {
	c.state = SuiteTorndown
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Unexpected panic during suite teardown", zap.Any("panic", r))
		}
	}()
	c.env.Clients.Reset()
	c.env.Codecs.Destroy()
	c.env.Store.ClearUnit(c.unit)
	if err := scope.runHook(PhaseSuiteEnd, c.suite.Hooks.AfterSuite); err != nil {
		c.logger.Error("Suite teardown hook failed", zap.String("error", diag.FormatError(err)))
	}
	if c.env.Codecs.Initialized() {
		c.env.Codecs.Destroy()
	}
	c.session.ClearToken()
}
