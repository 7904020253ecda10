// Package metrics defines the exporter abstraction used to publish
// per-method cache statistics to external observability systems.
package metrics

import "sort"

// Stats is the read side of the statistics a cache method maintains.
// The interface keeps this package independent of the cache package.
type Stats interface {
	Hits() int64
	Misses() int64
	Evictions() int64
	Clears() int64
	SlotCount() int64
	HitRate() float64
}

// Labels are key-value pairs attached to exported metrics.
type Labels map[string]string

// Fingerprint returns a stable string form of the label set, used to
// track per-series state across repeated exports.
func (l Labels) Fingerprint() string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "=" + l[k] + ","
	}
	return out
}

// Exporter publishes cache statistics and ad-hoc metrics.
type Exporter interface {
	// ExportStats publishes a statistics snapshot. Cumulative
	// counters are exported as deltas against the previous snapshot
	// for the same label set.
	ExportStats(stats Stats, labels Labels) error

	// IncrementCounter increments a named counter.
	IncrementCounter(name string, labels Labels) error

	// RecordHistogram records a value in a named histogram.
	RecordHistogram(name string, value float64, labels Labels) error

	// SetGauge sets a named gauge.
	SetGauge(name string, value float64, labels Labels) error

	// Close flushes pending metrics and shuts the exporter down.
	Close() error
}

// MetricNames holds the metric names shared by all exporters.
type MetricNames struct {
	HitsTotal      string
	MissesTotal    string
	EvictionsTotal string
	ClearsTotal    string
	SlotCount      string
	HitRate        string
}

// DefaultMetricNames returns the default, namespaced metric names.
func DefaultMetricNames() MetricNames {
	return MetricNames{
		HitsTotal:      "memotier_hits_total",
		MissesTotal:    "memotier_misses_total",
		EvictionsTotal: "memotier_evictions_total",
		ClearsTotal:    "memotier_clears_total",
		SlotCount:      "memotier_slots_count",
		HitRate:        "memotier_hit_rate",
	}
}

// Config holds exporter-independent configuration.
type Config struct {
	// Labels are default labels applied to every metric.
	Labels Labels

	// MetricNames allows overriding the standard metric names.
	MetricNames MetricNames
}

// NewDefaultConfig returns a Config with the default metric names.
func NewDefaultConfig() *Config {
	return &Config{
		Labels:      make(Labels),
		MetricNames: DefaultMetricNames(),
	}
}

// statsSnapshot remembers the last exported counter values for one
// label set, so cumulative counters can be exported as deltas.
type statsSnapshot struct {
	hits, misses, evictions, clears int64
}

func (s *statsSnapshot) deltas(stats Stats) (hits, misses, evictions, clears int64) {
	hits = counterDelta(&s.hits, stats.Hits())
	misses = counterDelta(&s.misses, stats.Misses())
	evictions = counterDelta(&s.evictions, stats.Evictions())
	clears = counterDelta(&s.clears, stats.Clears())
	return hits, misses, evictions, clears
}

// counterDelta advances the snapshot and returns the increase since
// the last export. A source counter that went backwards was reset by
// a cache clear; its current value is the whole delta.
func counterDelta(last *int64, cur int64) int64 {
	d := cur - *last
	if d < 0 {
		d = cur
	}
	*last = cur
	return d
}

// NoOpExporter discards all metrics. It is used when metrics are not
// configured.
type NoOpExporter struct{}

// NewNoOpExporter returns an exporter that discards everything.
func NewNoOpExporter() *NoOpExporter { return &NoOpExporter{} }

func (n *NoOpExporter) ExportStats(Stats, Labels) error               { return nil }
func (n *NoOpExporter) IncrementCounter(string, Labels) error         { return nil }
func (n *NoOpExporter) RecordHistogram(string, float64, Labels) error { return nil }
func (n *NoOpExporter) SetGauge(string, float64, Labels) error        { return nil }
func (n *NoOpExporter) Close() error                                  { return nil }

var _ Exporter = (*NoOpExporter)(nil)
