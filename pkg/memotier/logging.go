package memotier

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LogLevel defines the severity threshold for cache logging.
type LogLevel int

const (
	// LogLevelDebug enables all messages, including per-operation
	// lifecycle details.
	LogLevelDebug LogLevel = iota

	// LogLevelInfo enables informational messages and above.
	LogLevelInfo

	// LogLevelWarn enables warnings and above.
	LogLevelWarn

	// LogLevelError enables only errors.
	LogLevelError

	// LogLevelNone disables all logging.
	LogLevelNone
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Logger is the interface cache internals log through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a key-value pair for structured log output.
type Field struct {
	Key   string
	Value any
}

// F creates a logging field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// DefaultLogger implements Logger on top of the standard log package.
type DefaultLogger struct {
	level  LogLevel
	logger *log.Logger
	fields []Field
}

// NewDefaultLogger creates a logger writing to stderr at the given
// level.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		logger: log.New(os.Stderr, "[MEMOTIER] ", log.LstdFlags|log.Lmicroseconds),
	}
}

// Debug logs a debug message.
func (dl *DefaultLogger) Debug(msg string, fields ...Field) {
	if dl.level <= LogLevelDebug {
		dl.log("DEBUG", msg, fields...)
	}
}

// Info logs an informational message.
func (dl *DefaultLogger) Info(msg string, fields ...Field) {
	if dl.level <= LogLevelInfo {
		dl.log("INFO", msg, fields...)
	}
}

// Warn logs a warning.
func (dl *DefaultLogger) Warn(msg string, fields ...Field) {
	if dl.level <= LogLevelWarn {
		dl.log("WARN", msg, fields...)
	}
}

// Error logs an error.
func (dl *DefaultLogger) Error(msg string, fields ...Field) {
	if dl.level <= LogLevelError {
		dl.log("ERROR", msg, fields...)
	}
}

// With returns a logger that attaches fields to every message.
func (dl *DefaultLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(dl.fields)+len(fields))
	merged = append(merged, dl.fields...)
	merged = append(merged, fields...)
	return &DefaultLogger{level: dl.level, logger: dl.logger, fields: merged}
}

func (dl *DefaultLogger) log(level, msg string, fields ...Field) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for _, f := range dl.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	dl.logger.Print(b.String())
}

// noopLogger discards everything; used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}
func (noopLogger) With(...Field) Logger   { return noopLogger{} }

var _ Logger = (*DefaultLogger)(nil)
