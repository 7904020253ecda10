package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OpenTelemetryExporter publishes cache statistics through an
// OpenTelemetry meter.
type OpenTelemetryExporter struct {
	config       *Config
	meter        metric.Meter
	ctx          context.Context
	defaultAttrs []attribute.KeyValue

	hitsCounter      metric.Int64Counter
	missesCounter    metric.Int64Counter
	evictionsCounter metric.Int64Counter
	clearsCounter    metric.Int64Counter

	slotGauge    metric.Int64Gauge
	hitRateGauge metric.Float64Gauge

	mu         sync.Mutex
	snapshots  map[string]*statsSnapshot
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
}

// OpenTelemetryConfig holds OpenTelemetry-specific options.
type OpenTelemetryConfig struct {
	// Meter is required.
	Meter metric.Meter

	// Context is used for all instrument operations; Background when
	// nil.
	Context context.Context

	// DefaultAttributes are attached to every metric.
	DefaultAttributes []attribute.KeyValue
}

// NewOpenTelemetryExporter creates an OpenTelemetry exporter and its
// standard instruments.
func NewOpenTelemetryExporter(config *Config, otelConfig *OpenTelemetryConfig) (*OpenTelemetryExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if otelConfig == nil || otelConfig.Meter == nil {
		return nil, fmt.Errorf("an OpenTelemetry meter is required")
	}

	ctx := otelConfig.Context
	if ctx == nil {
		ctx = context.Background()
	}

	o := &OpenTelemetryExporter{
		config:       config,
		meter:        otelConfig.Meter,
		ctx:          ctx,
		defaultAttrs: otelConfig.DefaultAttributes,
		snapshots:    make(map[string]*statsSnapshot),
		counters:     make(map[string]metric.Int64Counter),
		histograms:   make(map[string]metric.Float64Histogram),
		gauges:       make(map[string]metric.Float64Gauge),
	}

	names := config.MetricNames
	var err error
	if o.hitsCounter, err = o.meter.Int64Counter(names.HitsTotal,
		metric.WithDescription("Total number of cache hits"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("create hits counter: %w", err)
	}
	if o.missesCounter, err = o.meter.Int64Counter(names.MissesTotal,
		metric.WithDescription("Total number of cache misses"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("create misses counter: %w", err)
	}
	if o.evictionsCounter, err = o.meter.Int64Counter(names.EvictionsTotal,
		metric.WithDescription("Total number of cache evictions"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("create evictions counter: %w", err)
	}
	if o.clearsCounter, err = o.meter.Int64Counter(names.ClearsTotal,
		metric.WithDescription("Total number of cache clears"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("create clears counter: %w", err)
	}
	if o.slotGauge, err = o.meter.Int64Gauge(names.SlotCount,
		metric.WithDescription("Current number of dispatch slots in use"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("create slot gauge: %w", err)
	}
	if o.hitRateGauge, err = o.meter.Float64Gauge(names.HitRate,
		metric.WithDescription("Cache hit rate as a percentage"), metric.WithUnit("%")); err != nil {
		return nil, fmt.Errorf("create hit rate gauge: %w", err)
	}

	return o, nil
}

// ExportStats publishes a statistics snapshot. Counters receive the
// delta since the previous export for the same label set.
func (o *OpenTelemetryExporter) ExportStats(stats Stats, labels Labels) error {
	attrs := o.attributes(labels)

	o.mu.Lock()
	snap, ok := o.snapshots[labels.Fingerprint()]
	if !ok {
		snap = &statsSnapshot{}
		o.snapshots[labels.Fingerprint()] = snap
	}
	hits, misses, evictions, clears := snap.deltas(stats)
	o.mu.Unlock()

	o.hitsCounter.Add(o.ctx, hits, metric.WithAttributes(attrs...))
	o.missesCounter.Add(o.ctx, misses, metric.WithAttributes(attrs...))
	o.evictionsCounter.Add(o.ctx, evictions, metric.WithAttributes(attrs...))
	o.clearsCounter.Add(o.ctx, clears, metric.WithAttributes(attrs...))

	o.slotGauge.Record(o.ctx, stats.SlotCount(), metric.WithAttributes(attrs...))
	o.hitRateGauge.Record(o.ctx, stats.HitRate(), metric.WithAttributes(attrs...))
	return nil
}

// IncrementCounter increments an ad-hoc counter, creating the
// instrument on first use.
func (o *OpenTelemetryExporter) IncrementCounter(name string, labels Labels) error {
	o.mu.Lock()
	counter, ok := o.counters[name]
	if !ok {
		var err error
		counter, err = o.meter.Int64Counter(name, metric.WithUnit("1"))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("create counter %s: %w", name, err)
		}
		o.counters[name] = counter
	}
	o.mu.Unlock()

	counter.Add(o.ctx, 1, metric.WithAttributes(o.attributes(labels)...))
	return nil
}

// RecordHistogram records a value in an ad-hoc histogram.
func (o *OpenTelemetryExporter) RecordHistogram(name string, value float64, labels Labels) error {
	o.mu.Lock()
	histogram, ok := o.histograms[name]
	if !ok {
		var err error
		histogram, err = o.meter.Float64Histogram(name, metric.WithUnit("1"))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("create histogram %s: %w", name, err)
		}
		o.histograms[name] = histogram
	}
	o.mu.Unlock()

	histogram.Record(o.ctx, value, metric.WithAttributes(o.attributes(labels)...))
	return nil
}

// SetGauge sets an ad-hoc gauge.
func (o *OpenTelemetryExporter) SetGauge(name string, value float64, labels Labels) error {
	o.mu.Lock()
	gauge, ok := o.gauges[name]
	if !ok {
		var err error
		gauge, err = o.meter.Float64Gauge(name, metric.WithUnit("1"))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("create gauge %s: %w", name, err)
		}
		o.gauges[name] = gauge
	}
	o.mu.Unlock()

	gauge.Record(o.ctx, value, metric.WithAttributes(o.attributes(labels)...))
	return nil
}

// Close is a no-op; instrument lifecycle belongs to the meter
// provider.
func (o *OpenTelemetryExporter) Close() error { return nil }

func (o *OpenTelemetryExporter) attributes(labels Labels) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels)+len(o.config.Labels)+len(o.defaultAttrs))
	attrs = append(attrs, o.defaultAttrs...)
	for k, v := range o.config.Labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

var _ Exporter = (*OpenTelemetryExporter)(nil)
