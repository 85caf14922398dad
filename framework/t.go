package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/setianjay/api-contract-tests/diag"
	"github.com/setianjay/api-contract-tests/jsoncodec"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/transport"
)

var validate = validator.New()

// T is the handle given to test actions and hooks. It implements require.TestingT, so
// failures can be reported with testify's assert and require packages.
type T struct {
	controller    *Controller
	id            TestID
	name          string
	logger        *diag.Logger
	pipeline      *request.Pipeline
	correlationID string
	failed        bool
	skipped       bool
	skipReason    string
	errors        []error
	quiet         bool
}

func newT(c *Controller, id TestID, name string, capture *diag.Capture) *T {
	logger := c.logger
	if capture != nil {
		logger = logger.WithCapture(capture)
	}
	options := []request.Option{request.WithMetrics(c.env.Metrics)}
	if c.env.MaskedFields != nil {
		options = append(options, request.WithMaskedFields(c.env.MaskedFields...))
	}
	return &T{
		controller: c,
		id:         id,
		name:       name,
		logger:     logger,
		pipeline: request.NewPipeline(
			c.suite.BaseURL, c.env.Codecs, c.env.Clients, c.session, logger, options...,
		),
	}
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			if t.skipped {
				return
			}
			t.failed = true
			var addError error
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				t.errors = append(t.errors, addError)
				t.controller.env.TestLogger.TestError(t.id, addError)
			}
		}
	}()
	action(t)
}

// runHook invokes hook with t as its argument. Failures reported through t while the
// hook runs are returned as one error instead of being recorded on t.
func (t *T) runHook(phase Phase, hook Hook) (err error) {
	if hook == nil {
		return nil
	}
	mark := len(t.errors)
	wasFailed, wasSkipped := t.failed, t.skipped
	t.quiet = true
	defer func() {
		t.quiet = false
		var reported []error
		if len(t.errors) > mark {
			reported = append(reported, t.errors[mark:]...)
		}
		if r := recover(); r != nil {
			if _, ok := r.(*T); !ok {
				reported = append(reported, fmt.Errorf("unexpected panic in %s hook: %+v", phase, r))
			} else if len(reported) == 0 && !t.skipped {
				reported = append(reported, errors.New("hook failed with no failure message"))
			}
		}
		t.errors, t.failed = t.errors[:mark], wasFailed
		if phase == PhaseTestEnd || phase == PhaseSuiteEnd {
			t.skipped = wasSkipped
		}
		if err == nil && len(reported) > 0 {
			err = errors.Join(reported...)
		}
	}()
	return hook(t)
}

func (t *T) ID() TestID { return t.id }

// Name is the test's display name. It is empty in suite-level hooks.
func (t *T) Name() string { return t.name }

func (t *T) State() State { return t.controller.state }

func (t *T) Suite() Suite { return t.controller.suite }

func (t *T) Logger() *diag.Logger { return t.logger }

// CorrelationID is the id assigned to this test run when its context was opened.
func (t *T) CorrelationID() string { return t.correlationID }

func (t *T) Session() *request.Session { return t.controller.session }

// Codec returns the suite's JSON codec. In an AfterSuite hook the codec has already been
// released; calling Codec there builds a temporary one that is released again when the
// hook returns.
func (t *T) Codec() *jsoncodec.Codec { return t.controller.env.Codecs.Get() }

// TransportConfig returns the HTTP client configuration that will be applied when the
// suite-start phase completes. It is nil outside of a BeforeSuite hook.
func (t *T) TransportConfig() *transport.Config { return t.controller.pending }

func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	if !t.quiet {
		t.controller.env.TestLogger.TestError(t.id, err)
	}
}

func (t *T) FailNow() {
	panic(t)
}

func (t *T) Failed() bool { return t.failed }

func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug writes a formatted debug entry carrying the current diagnostic context.
func (t *T) Debug(message string, args ...interface{}) {
	t.logger.Debug(fmt.Sprintf(message, args...))
}

// Try dispatches d and returns any error to the caller.
func (t *T) Try(d request.Descriptor) (*request.Response, error) {
	return t.pipeline.Execute(context.Background(), d)
}

// Execute dispatches d and fails the test if no response was received.
func (t *T) Execute(d request.Descriptor) *request.Response {
	resp, err := t.Try(d)
	require.NoError(t, err, "%s %s", d.Method, d.Path)
	return resp
}

// Response is the most recent response of the session, failing the test if there is none.
func (t *T) Response() *request.Response {
	resp := t.Session().Response()
	require.NotNil(t, resp, "no request has been executed in this test")
	return resp
}

func (t *T) RequireStatus(expected int) {
	resp := t.Response()
	require.Equal(t, expected, resp.StatusCode, "unexpected status code; body: %s", diag.TruncateBody(resp.Body))
}

// DecodeResponse decodes the latest response body into target.
func (t *T) DecodeResponse(target interface{}) {
	require.NoError(t, t.Codec().DecodeInto(t.Response().Body, target))
}

// RequireSchema fails the test unless the latest response body conforms to schemaJSON.
func (t *T) RequireSchema(schemaJSON string) {
	schema, err := jsonschema.CompileString("response-schema.json", schemaJSON)
	require.NoError(t, err, "invalid JSON schema")
	var payload interface{}
	require.NoError(t, t.Codec().DecodeInto(t.Response().Body, &payload))
	if err := schema.Validate(payload); err != nil {
		require.Fail(t, "response does not match schema", "%s", err)
	}
}

// RequireValid fails the test unless v passes its validate struct tags.
func (t *T) RequireValid(v interface{}) {
	if err := validate.Struct(v); err != nil {
		require.Fail(t, "response failed validation", "%s", err)
	}
}

// ReadResponse decodes the latest response body as a V.
func ReadResponse[V any](t *T) V {
	v, err := jsoncodec.Decode[V](t.Codec(), t.Response().Body)
	require.NoError(t, err)
	return v
}
