package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/setianjay/api-contract-tests/diag"
	"github.com/setianjay/api-contract-tests/jsoncodec"
	"github.com/setianjay/api-contract-tests/transport"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// DefaultMaskedFields are the JSON fields whose values never appear in logged bodies.
var DefaultMaskedFields = []string{"password", "token"}

// Pipeline turns Descriptors into HTTP calls against one base address.
type Pipeline struct {
	baseURL      string
	codecs       *jsoncodec.Provider
	clients      *transport.Registry
	session      *Session
	logger       *diag.Logger
	metrics      *Metrics
	maskedFields []string
}

type Option func(*Pipeline)

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithMaskedFields replaces DefaultMaskedFields.
func WithMaskedFields(fields ...string) Option {
	return func(p *Pipeline) { p.maskedFields = fields }
}

func NewPipeline(
	baseURL string,
	codecs *jsoncodec.Provider,
	clients *transport.Registry,
	session *Session,
	logger *diag.Logger,
	options ...Option,
) *Pipeline {
	if logger == nil {
		logger = diag.NewLogger(nil, nil, "")
	}
	p := &Pipeline{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		codecs:       codecs,
		clients:      clients,
		session:      session,
		logger:       logger,
		maskedFields: DefaultMaskedFields,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

func (p *Pipeline) BaseURL() string { return p.baseURL }

// Execute dispatches exactly one HTTP call for d and makes its response the session's
// current response. Serialization and descriptor problems are returned as
// *ExecutionError; errors from the HTTP transport are returned as they are.
func (p *Pipeline) Execute(ctx context.Context, d Descriptor) (*Response, error) {
	fail := func(op string, err error) (*Response, error) {
		p.logger.Error("Request execution failed", zap.String("op", op), zap.Error(err))
		return nil, &ExecutionError{Op: op, Method: d.Method, Path: d.Path, Err: err}
	}

	if !d.Method.Valid() {
		return fail("dispatch", fmt.Errorf("%w: %q", ErrUnsupportedMethod, string(d.Method)))
	}

	endpoint := p.baseURL + d.Path

	var bodyJSON string
	hasBody := !jsoncodec.IsNull(d.Body)
	if hasBody {
		s, err := p.codecs.Get().Encode(d.Body)
		if err != nil {
			return fail("serialize request body", err)
		}
		bodyJSON = s
	}

	headers := p.session.ensureTemplate().Clone()
	for name, value := range d.Headers {
		headers.Set(name, value)
	}

	query := queryValues(d.Query)

	path, err := substitutePath(d.Path, d.PathParams)
	if err != nil {
		return fail("resolve path", err)
	}
	uri, err := buildURI(p.baseURL+path, query)
	if err != nil {
		return fail("build URI", err)
	}

	var bodyReader io.Reader
	if hasBody {
		bodyReader = strings.NewReader(bodyJSON)
	}
	req, err := http.NewRequestWithContext(ctx, string(d.Method), uri, bodyReader)
	if err != nil {
		return fail("build request", err)
	}
	req.Header = headers

	loggedBody := diag.MaskSensitive(bodyJSON, p.maskedFields...)
	p.logger.Debug("Equivalent command: " + CurlCommand(d.Method, uri, headers, loggedBody))

	start := time.Now()
	resp, err := p.clients.Client().Do(req)
	if err != nil {
		p.metrics.observe(d.Method, 0, time.Since(start))
		p.logger.Error("API request failed", zap.String("method", string(d.Method)),
			zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if err != nil {
		p.metrics.observe(d.Method, 0, elapsed)
		return nil, err
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Body:       string(data),
		Header:     resp.Header,
		Elapsed:    elapsed,
		URI:        uri,
	}
	p.session.response = response
	p.metrics.observe(d.Method, resp.StatusCode, elapsed)

	p.logger.LogAPICall(diag.APICall{
		Method:       string(d.Method),
		Endpoint:     endpoint,
		Duration:     elapsed,
		Query:        query,
		URI:          uri,
		RequestBody:  loggedBody,
		ResponseBody: diag.MaskSensitive(response.Body, p.maskedFields...),
		Status:       response.StatusCode,
	})
	return response, nil
}

func substitutePath(path string, bindings map[string]interface{}) (string, error) {
	var missing []string
	resolved := placeholderPattern.ReplaceAllStringFunc(path, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := bindings[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(fmt.Sprint(v))
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, strings.Join(missing, ", "))
	}
	return resolved, nil
}

func queryValues(params map[string]interface{}) url.Values {
	values := make(url.Values)
	for name, v := range params {
		if _, text := v.(string); !text && jsoncodec.IsNull(v) {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				values.Add(name, fmt.Sprint(rv.Index(i).Interface()))
			}
			continue
		}
		values.Add(name, fmt.Sprint(v))
	}
	return values
}

func buildURI(raw string, query url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		merged := u.Query()
		for name, vs := range query {
			for _, v := range vs {
				merged.Add(name, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}
