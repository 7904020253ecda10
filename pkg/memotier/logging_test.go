package memotier

import "testing"

// recordLogger captures log calls for assertions.
type recordLogger struct {
	entries []recordedEntry
	fields  []Field
}

type recordedEntry struct {
	Level   string
	Message string
	Fields  []Field
}

func (rl *recordLogger) Debug(msg string, fields ...Field) { rl.record("DEBUG", msg, fields) }
func (rl *recordLogger) Info(msg string, fields ...Field)  { rl.record("INFO", msg, fields) }
func (rl *recordLogger) Warn(msg string, fields ...Field)  { rl.record("WARN", msg, fields) }
func (rl *recordLogger) Error(msg string, fields ...Field) { rl.record("ERROR", msg, fields) }

func (rl *recordLogger) With(fields ...Field) Logger {
	merged := append(append([]Field(nil), rl.fields...), fields...)
	return &recordLogger{entries: rl.entries, fields: merged}
}

func (rl *recordLogger) record(level, msg string, fields []Field) {
	all := append(append([]Field(nil), rl.fields...), fields...)
	rl.entries = append(rl.entries, recordedEntry{Level: level, Message: msg, Fields: all})
}

func TestLogLevelString(t *testing.T) {
	cases := map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
		LogLevelNone:  "NONE",
		LogLevel(42):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Expected %q, got %q", want, got)
		}
	}
}

func TestF(t *testing.T) {
	f := F("method", "Degree")
	if f.Key != "method" || f.Value != "Degree" {
		t.Fatalf("Unexpected field %+v", f)
	}
}

func TestDefaultLoggerWith(t *testing.T) {
	base := NewDefaultLogger(LogLevelNone)
	derived := base.With(F("class", "Network"))
	if derived == nil {
		t.Fatal("Expected derived logger")
	}
	// Silent at LogLevelNone; must not panic
	derived.Debug("nothing")
	derived.Error("nothing")
}

func TestClassLogsClear(t *testing.T) {
	logger := &recordLogger{}
	c := MustClass("vector", NewDefaultConfig().WithLogger(logger))
	f := Wrap0(c, "Logged", func(v *vector) int { return 0 })

	f.Call(&vector{})
	f.Clear()

	found := false
	for _, e := range logger.entries {
		if e.Level == "DEBUG" && e.Message == "method cache cleared" {
			found = true
			for _, fld := range e.Fields {
				if fld.Key == "method" && fld.Value != "Logged" {
					t.Fatalf("Unexpected method field %v", fld.Value)
				}
			}
		}
	}
	if !found {
		t.Fatal("Expected clear to be logged at debug level")
	}
}
