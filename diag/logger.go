package diag

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// MaxLoggedBodyLength is how much of a response body is written to the debug log.
	MaxLoggedBodyLength = 1000
	TruncationMarker    = "... (truncated)"
)

// NewZapLogger builds the console logger used by the CLI.
func NewZapLogger(level zapcore.Level, out io.Writer) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(out)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// ParseLevel maps a case-insensitive level name to a zap level, defaulting to INFO.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.DebugLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Logger writes through zap and stamps every entry with the diagnostic context of its
// executing unit.
type Logger struct {
	base  *zap.Logger
	store *Store
	unit  string
}

func NewLogger(base *zap.Logger, store *Store, unit string) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	if store == nil {
		store = NewStore()
	}
	return &Logger{base: base, store: store, unit: unit}
}

func (l *Logger) Unit() string  { return l.unit }
func (l *Logger) Store() *Store { return l.store }

// Zap returns the underlying logger with the current context fields attached.
func (l *Logger) Zap() *zap.Logger {
	return l.base.With(l.store.Fields(l.unit)...)
}

// Named returns a logger for a sub-component sharing the same unit and store.
func (l *Logger) Named(name string) *Logger {
	return &Logger{base: l.base.Named(name), store: l.store, unit: l.unit}
}

// WithCapture returns a logger that also writes every entry to c.
func (l *Logger) WithCapture(c *Capture) *Logger {
	base := l.base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, c.Core())
	}))
	return &Logger{base: base, store: l.store, unit: l.unit}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.write(zap.DebugLevel, msg, fields) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.write(zap.InfoLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.write(zap.WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.write(zap.ErrorLevel, msg, fields) }

func (l *Logger) write(level zapcore.Level, msg string, fields []zap.Field) {
	if ce := l.base.Check(level, msg); ce != nil {
		ce.Write(append(l.store.Fields(l.unit), fields...)...)
	}
}

func (l *Logger) OpenContext(suiteName, testName string) string {
	return l.store.Open(l.unit, suiteName, testName)
}

func (l *Logger) CloseContext() {
	l.store.Close(l.unit)
}

func (l *Logger) CurrentCorrelationID() (string, bool) {
	return l.store.CorrelationID(l.unit)
}

// LogTestStart opens a new diagnostic context and writes the start banner.
func (l *Logger) LogTestStart(suiteName, testName string) string {
	id := l.OpenContext(suiteName, testName)
	l.Info(fmt.Sprintf("Starting test: %s.%s [TestID: %s]", suiteName, testName, id))
	return id
}

// LogTestEnd writes the completion banner and closes the diagnostic context.
func (l *Logger) LogTestEnd(suiteName, testName string) {
	id, _ := l.CurrentCorrelationID()
	l.Info(fmt.Sprintf("Completed test: %s.%s [TestID: %s]", suiteName, testName, id))
	l.CloseContext()
}

// APICall describes one dispatched request for LogAPICall.
type APICall struct {
	Method       string
	Endpoint     string
	Duration     time.Duration
	Query        url.Values
	URI          string
	RequestBody  string
	ResponseBody string
	Status       int
}

// LogAPICall writes the request banner at INFO and the request/response detail at DEBUG.
func (l *Logger) LogAPICall(call APICall) {
	l.Info(fmt.Sprintf("API Request: %s %s with duration %dms", call.Method, call.Endpoint, call.Duration.Milliseconds()),
		zap.String("method", call.Method),
		zap.String("endpoint", call.Endpoint),
		zap.Duration("duration", call.Duration),
		zap.Int("status", call.Status),
	)

	switch call.Method {
	case "GET":
		l.Debug(fmt.Sprintf("Request Params: %v", map[string][]string(call.Query)))
		if call.URI != "" {
			l.Debug(fmt.Sprintf("Request Path: %s", call.URI))
		}
	case "POST", "PUT", "PATCH":
		if call.RequestBody != "" {
			l.Debug(fmt.Sprintf("Request Body: %s", call.RequestBody))
		}
	}

	if strings.TrimSpace(call.ResponseBody) != "" {
		l.Debug(fmt.Sprintf("Response Body: %s", TruncateBody(call.ResponseBody)))
	}
}

// LogPerformance writes a duration banner, tagged with the correlation id when a context
// is open.
func (l *Logger) LogPerformance(operation string, d time.Duration) {
	msg := fmt.Sprintf("Performance: %s took %dms", operation, d.Milliseconds())
	if id, ok := l.CurrentCorrelationID(); ok {
		msg += fmt.Sprintf(" [TestID: %s]", id)
	}
	l.Info(msg, zap.String("operation", operation), zap.Duration("duration", d))
}

// TruncateBody shortens s to MaxLoggedBodyLength characters plus TruncationMarker.
func TruncateBody(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxLoggedBodyLength {
		return s
	}
	return string(runes[:MaxLoggedBodyLength]) + TruncationMarker
}
