package memotier

import (
	"io"
	"testing"
	"time"

	"github.com/vnykmshr/memotier-go/pkg/metrics"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()
	if !config.Enabled {
		t.Fatal("Expected caching enabled by default")
	}
	if config.Global.MaxSize != 16 || config.Global.Typed {
		t.Fatalf("Unexpected global defaults: %+v", config.Global)
	}
	if config.Local.MaxSize != 3 || !config.Local.Typed {
		t.Fatalf("Unexpected local defaults: %+v", config.Local)
	}
	if config.Metrics != nil {
		t.Fatal("Expected no metrics by default")
	}
}

func TestConfigBuilders(t *testing.T) {
	logger := NewDefaultLogger(LogLevelError)
	hooks := &Hooks{}
	keyFn := func(parts []any) string { return "k" }

	config := NewDefaultConfig().
		WithEnabled(false).
		WithGlobalMaxSize(32).
		WithLocalMaxSize(8).
		WithTypedLocalKeys(false).
		WithKeyGen(keyFn).
		WithHooks(hooks).
		WithLogger(logger).
		WithProgressWriter(io.Discard)

	if config.Enabled {
		t.Fatal("Expected disabled")
	}
	if config.Global.MaxSize != 32 || config.Local.MaxSize != 8 {
		t.Fatalf("Unexpected sizes: global=%d local=%d",
			config.Global.MaxSize, config.Local.MaxSize)
	}
	if config.Local.Typed {
		t.Fatal("Expected untyped local keys")
	}
	if config.KeyGen == nil || config.Hooks != hooks || config.Logger != logger {
		t.Fatal("Expected builder fields to stick")
	}
	if config.ProgressWriter != io.Discard {
		t.Fatal("Expected progress writer to stick")
	}
}

func TestConfigTierParams(t *testing.T) {
	config := NewDefaultConfig().
		WithGlobalParams(LRUParams{MaxSize: 4, Typed: true}).
		WithLocalParams(LRUParams{MaxSize: 2})

	if config.Global.MaxSize != 4 || !config.Global.Typed {
		t.Fatalf("Unexpected global params: %+v", config.Global)
	}
	if config.Local.MaxSize != 2 || config.Local.Typed {
		t.Fatalf("Unexpected local params: %+v", config.Local)
	}
}

func TestConfigMetricsBuilders(t *testing.T) {
	exporter := metrics.NewNoOpExporter()
	config := NewDefaultConfig().
		WithMetricsExporter(exporter, 30*time.Second).
		WithMetricsLabels(metrics.Labels{"service": "analysis"})

	mc := config.Metrics
	if mc == nil || !mc.Enabled || mc.Exporter != exporter {
		t.Fatalf("Unexpected metrics config: %+v", mc)
	}
	if mc.ReportingInterval != 30*time.Second {
		t.Fatalf("Unexpected interval %v", mc.ReportingInterval)
	}
	if mc.Labels["service"] != "analysis" {
		t.Fatalf("Expected label to stick, got %v", mc.Labels)
	}
}

func TestNewClassValidation(t *testing.T) {
	if _, err := NewClass("bad", NewDefaultConfig().WithGlobalMaxSize(0)); err == nil {
		t.Fatal("Expected error for zero global size")
	}
	if _, err := NewClass("bad", NewDefaultConfig().WithLocalMaxSize(-1)); err == nil {
		t.Fatal("Expected error for negative local size")
	}
}

func TestMustClassPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected MustClass to panic on bad config")
		}
	}()
	MustClass("bad", NewDefaultConfig().WithGlobalMaxSize(-1))
}

func TestNewClassNilConfig(t *testing.T) {
	c, err := NewClass("defaults", nil)
	if err != nil {
		t.Fatalf("Failed to create class: %v", err)
	}
	if c.Name() != "defaults" {
		t.Fatalf("Unexpected name %q", c.Name())
	}
}
