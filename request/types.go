package request

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Method is one of the HTTP methods the pipeline can dispatch.
type Method string

const (
	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	PUT    Method = http.MethodPut
	PATCH  Method = http.MethodPatch
	DELETE Method = http.MethodDelete
)

var AllMethods = []Method{GET, POST, PUT, PATCH, DELETE}

var (
	ErrUnsupportedMethod     = errors.New("unsupported HTTP method")
	ErrUnresolvedPlaceholder = errors.New("path placeholder has no binding")
)

func (m Method) Valid() bool {
	for _, v := range AllMethods {
		if m == v {
			return true
		}
	}
	return false
}

// ParseMethod accepts a method name in any case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
	return m, nil
}

// Descriptor declares one HTTP call. Path may contain placeholders such as "{id}" that are
// filled from PathParams.
type Descriptor struct {
	Method     Method
	Path       string
	Body       interface{}
	Headers    map[string]string
	Query      map[string]interface{}
	PathParams map[string]interface{}
}

// Response is the result of one dispatched Descriptor.
type Response struct {
	StatusCode int
	Body       string
	Header     http.Header
	Elapsed    time.Duration
	URI        string
}

func (r *Response) String() string { return r.Body }

// ExecutionError means the pipeline gave up on a call before or while building it. It is
// never used for failures reported by the HTTP transport itself.
type ExecutionError struct {
	Op     string
	Method Method
	Path   string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("request execution failed (%s %s): %s: %s", e.Method, e.Path, e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TokenCookie returns the header override that authenticates with a session token.
func TokenCookie(token string) map[string]string {
	return map[string]string{"Cookie": "token=" + token}
}
