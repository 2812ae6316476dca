// Package log wraps logrus with context-aware helpers (Infof, Warnf, ...)
// that tag every line with the request and tool-call ids found in ctx.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	tdcontext "github.com/va6996/tickerdesk/context"
)

const (
	fieldRequestID = "request_id"
	fieldTool      = "tool"
)

// Logger is the global logger instance
var Logger = logrus.New()

// CustomFormatter implements logrus.Formatter for the desired output format
type CustomFormatter struct {
	TimestampFormat string
	// DisableCaller omits the [file:line] segment.
	DisableCaller bool
}

// Format formats a log entry as [<time>] [LEVEL] [file:line] <message> [req:<id>] [tool:<name>] k=v
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "[%s] ", entry.Time.Format(f.TimestampFormat))
	fmt.Fprintf(b, "[%s] ", strings.ToUpper(entry.Level.String()))

	if !f.DisableCaller {
		if file, line := callerFrame(); file != "" {
			fmt.Fprintf(b, "[%s:%d] ", file, line)
		}
	}

	b.WriteString(entry.Message)

	if requestID, ok := entry.Data[fieldRequestID].(string); ok && requestID != "" {
		fmt.Fprintf(b, " [req:%s]", requestID)
	}
	if tool, ok := entry.Data[fieldTool].(string); ok && tool != "" {
		fmt.Fprintf(b, " [tool:%s]", tool)
	}

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != fieldRequestID && key != fieldTool {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, " %s=%v", key, entry.Data[key])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// callerFrame walks the stack past logrus and this package and returns the
// base file name and line of the first application frame.
func callerFrame() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		skip := strings.Contains(frame.File, "github.com/sirupsen/logrus") ||
			strings.HasSuffix(frame.File, "log/log.go") ||
			strings.Contains(frame.File, "runtime/")
		if !skip {
			parts := strings.Split(frame.File, "/")
			return parts[len(parts)-1], frame.Line
		}
		if !more {
			return "", 0
		}
	}
}

// entry builds a log entry carrying the ids found in ctx
func entry(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if requestID := tdcontext.RequestIDFromContext(ctx); requestID != "" {
		fields[fieldRequestID] = requestID
	}
	if tool := tdcontext.ToolCallFromContext(ctx); tool != "" {
		fields[fieldTool] = tool
	}
	return Logger.WithFields(fields)
}

// Infof logs formatted message at info level
func Infof(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Infof(format, args...)
}

// Info logs a message at info level
func Info(ctx context.Context, args ...interface{}) {
	entry(ctx).Info(args...)
}

// Debugf logs formatted message at debug level
func Debugf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Debugf(format, args...)
}

// Warnf logs formatted message at warning level
func Warnf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Warnf(format, args...)
}

// Warn logs a message at warning level
func Warn(ctx context.Context, args ...interface{}) {
	entry(ctx).Warn(args...)
}

// Errorf logs formatted message at error level
func Errorf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Errorf(format, args...)
}

// Fatalf logs formatted message at fatal level and exits
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Fatalf(format, args...)
}

// SetOutput sets the global log output
func SetOutput(out io.Writer) {
	Logger.SetOutput(out)
}

// SetLevel parses and applies a level name such as "debug" or "warn"
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Logger.SetLevel(lvl)
	return nil
}

// Init installs the custom formatter and the given level.
// An empty level means info.
func Init(level string) error {
	Logger.SetFormatter(&CustomFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if level == "" {
		level = "info"
	}
	return SetLevel(level)
}

// WithField creates a logger entry with a predefined field
func WithField(ctx context.Context, key string, value interface{}) *logrus.Entry {
	return entry(ctx).WithField(key, value)
}
