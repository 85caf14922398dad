package request

import "net/http"

const DefaultUserAgent = "API-Test-Automation/1.0"

// DefaultHeaders is the header template every test starts with.
func DefaultHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", userAgent)
	return h
}

// Session is the mutable state shared by the tests of one suite: the request template,
// the last response, the display name of the running test and the auth token, if any.
// It is only touched by the suite's single worker.
type Session struct {
	userAgent string
	template  http.Header
	response  *Response
	testName  string
	token     string
}

func NewSession(userAgent string) *Session {
	return &Session{userAgent: userAgent}
}

// ResetTemplate replaces the request template with a fresh copy of the default headers.
func (s *Session) ResetTemplate() {
	s.template = DefaultHeaders(s.userAgent)
}

func (s *Session) DiscardTemplate() { s.template = nil }

// Template returns the current request template, or nil if it was discarded.
func (s *Session) Template() http.Header { return s.template }

// Response returns the response of the most recent call, or nil.
func (s *Session) Response() *Response { return s.response }

func (s *Session) DiscardResponse() { s.response = nil }

func (s *Session) TestName() string     { return s.testName }
func (s *Session) SetTestName(n string) { s.testName = n }

func (s *Session) Token() string     { return s.token }
func (s *Session) SetToken(t string) { s.token = t }
func (s *Session) ClearToken()       { s.token = "" }

func (s *Session) ensureTemplate() http.Header {
	if s.template == nil {
		s.ResetTemplate()
	}
	return s.template
}
