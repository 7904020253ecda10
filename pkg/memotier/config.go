package memotier

import (
	"io"
	"os"
	"time"

	"github.com/vnykmshr/memotier-go/pkg/metrics"
)

// LRUParams bound one cache tier.
type LRUParams struct {
	// MaxSize is the entry budget; exceeding it evicts the least
	// recently used entry.
	MaxSize int

	// Typed makes keys distinguish equal values of different
	// underlying numeric types, the way a typed memoizer would.
	Typed bool
}

// Default tier parameters.
var (
	DefaultGlobalParams = LRUParams{MaxSize: 16, Typed: false}
	DefaultLocalParams  = LRUParams{MaxSize: 3, Typed: true}
)

// Config defines the caching behaviour for one Class. It is read when
// methods are wrapped; mutating it afterwards has no effect.
type Config struct {
	// Enabled toggles the whole mechanism. When false, wrapped
	// methods call straight through and expose no cache
	// introspection.
	// Default: true.
	Enabled bool

	// Global bounds the per-method dispatch cache (one slot per
	// object). Default: 16 slots, untyped.
	Global LRUParams

	// Local bounds the per-object result cache. Default: 3 entries,
	// typed.
	Local LRUParams

	// KeyGen overrides the call-key generation function. When nil,
	// the Local.Typed flag selects DefaultKeyFunc or UntypedKeyFunc.
	KeyGen KeyGenFunc

	// Hooks are event callbacks for cache operations.
	Hooks *Hooks

	// Logger receives lifecycle log lines. Silent when nil.
	Logger Logger

	// ProgressWriter receives the "Calculating ..." line emitted on
	// local misses of named methods. Default: os.Stdout.
	ProgressWriter io.Writer

	// Metrics configures periodic export of per-method statistics.
	// No metrics are exported when nil.
	Metrics *MetricsConfig
}

// MetricsConfig holds metrics exporter configuration for a Class.
type MetricsConfig struct {
	// Exporter publishes the statistics.
	Exporter metrics.Exporter

	// Enabled determines whether export happens at all.
	Enabled bool

	// ReportingInterval is how often stats are exported
	// automatically. Zero disables the reporter; FlushMetrics can
	// still be called manually.
	ReportingInterval time.Duration

	// Labels are additional labels attached to every metric.
	Labels metrics.Labels
}

// NewDefaultConfig returns a Config with the default tier bounds and
// caching enabled.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		Global:         DefaultGlobalParams,
		Local:          DefaultLocalParams,
		Hooks:          &Hooks{},
		ProgressWriter: os.Stdout,
	}
}

// WithEnabled toggles the caching mechanism.
func (c *Config) WithEnabled(enabled bool) *Config {
	c.Enabled = enabled
	return c
}

// WithGlobalParams sets the dispatch-tier bounds.
func (c *Config) WithGlobalParams(p LRUParams) *Config {
	c.Global = p
	return c
}

// WithLocalParams sets the result-tier bounds.
func (c *Config) WithLocalParams(p LRUParams) *Config {
	c.Local = p
	return c
}

// WithGlobalMaxSize sets the per-method slot budget.
func (c *Config) WithGlobalMaxSize(n int) *Config {
	c.Global.MaxSize = n
	return c
}

// WithLocalMaxSize sets the per-object entry budget.
func (c *Config) WithLocalMaxSize(n int) *Config {
	c.Local.MaxSize = n
	return c
}

// WithTypedLocalKeys toggles type-sensitive call keys.
func (c *Config) WithTypedLocalKeys(typed bool) *Config {
	c.Local.Typed = typed
	return c
}

// WithKeyGen sets a custom key generation function.
func (c *Config) WithKeyGen(fn KeyGenFunc) *Config {
	c.KeyGen = fn
	return c
}

// WithHooks sets the event hooks.
func (c *Config) WithHooks(hooks *Hooks) *Config {
	c.Hooks = hooks
	return c
}

// WithLogger sets the lifecycle logger.
func (c *Config) WithLogger(logger Logger) *Config {
	c.Logger = logger
	return c
}

// WithProgressWriter redirects progress messages.
func (c *Config) WithProgressWriter(w io.Writer) *Config {
	c.ProgressWriter = w
	return c
}

// WithMetricsExporter configures metrics export with the given
// exporter and reporting interval.
func (c *Config) WithMetricsExporter(exporter metrics.Exporter, interval time.Duration) *Config {
	c.Metrics = &MetricsConfig{
		Exporter:          exporter,
		Enabled:           true,
		ReportingInterval: interval,
		Labels:            make(metrics.Labels),
	}
	return c
}

// WithMetricsLabels adds labels to the metrics configuration.
func (c *Config) WithMetricsLabels(labels metrics.Labels) *Config {
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{Labels: make(metrics.Labels)}
	}
	if c.Metrics.Labels == nil {
		c.Metrics.Labels = make(metrics.Labels)
	}
	for k, v := range labels {
		c.Metrics.Labels[k] = v
	}
	return c
}
