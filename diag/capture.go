package diag

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type CapturedMessage struct {
	Time    time.Time
	Level   zapcore.Level
	Message string
	Fields  map[string]interface{}
}

type CapturedOutput []CapturedMessage

// Capture accumulates log entries for one test so they can be shown after it finishes.
type Capture struct {
	output []CapturedMessage
	lock   sync.Mutex
}

// Core returns a zap core that records every entry, regardless of level, into c.
func (c *Capture) Core() zapcore.Core {
	return &captureCore{capture: c}
}

func (c *Capture) add(m CapturedMessage) {
	c.lock.Lock()
	c.output = append(c.output, m)
	c.lock.Unlock()
}

func (c *Capture) Output() CapturedOutput {
	c.lock.Lock()
	ret := append([]CapturedMessage(nil), c.output...)
	c.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %-5s %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Level.CapitalString(),
			m.Message,
		)
	}
}

type captureCore struct {
	capture *Capture
	fields  []zapcore.Field
}

func (cc *captureCore) Enabled(zapcore.Level) bool { return true }

func (cc *captureCore) With(fields []zapcore.Field) zapcore.Core {
	return &captureCore{
		capture: cc.capture,
		fields:  append(append([]zapcore.Field(nil), cc.fields...), fields...),
	}
}

func (cc *captureCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, cc)
}

func (cc *captureCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range cc.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	cc.capture.add(CapturedMessage{
		Time:    ent.Time,
		Level:   ent.Level,
		Message: ent.Message,
		Fields:  enc.Fields,
	})
	return nil
}

func (cc *captureCore) Sync() error { return nil }
