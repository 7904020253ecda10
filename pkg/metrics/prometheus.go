package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter publishes cache statistics as Prometheus metrics.
type PrometheusExporter struct {
	config   *Config
	registry prometheus.Registerer

	hitsTotal      *prometheus.CounterVec
	missesTotal    *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
	clearsTotal    *prometheus.CounterVec

	slotCount *prometheus.GaugeVec
	hitRate   *prometheus.GaugeVec

	mu         sync.Mutex
	snapshots  map[string]*statsSnapshot
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// PrometheusConfig holds Prometheus-specific options.
type PrometheusConfig struct {
	// Registry is the registry to register metrics with. The default
	// registerer is used when nil.
	Registry prometheus.Registerer
}

// Standard label names applied to every per-method metric.
var baseLabelNames = []string{"class", "method"}

// NewPrometheusExporter creates a Prometheus exporter and registers
// the standard metrics.
func NewPrometheusExporter(config *Config, promConfig *PrometheusConfig) (*PrometheusExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if promConfig == nil {
		promConfig = &PrometheusConfig{}
	}

	registry := promConfig.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	constLabels := make(prometheus.Labels, len(config.Labels))
	for k, v := range config.Labels {
		constLabels[k] = v
	}

	p := &PrometheusExporter{
		config:     config,
		registry:   registry,
		snapshots:  make(map[string]*statsSnapshot),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	names := config.MetricNames
	var err error
	if p.hitsTotal, err = p.newCounterVec(names.HitsTotal, "Total number of cache hits", baseLabelNames, constLabels); err != nil {
		return nil, err
	}
	if p.missesTotal, err = p.newCounterVec(names.MissesTotal, "Total number of cache misses", baseLabelNames, constLabels); err != nil {
		return nil, err
	}
	if p.evictionsTotal, err = p.newCounterVec(names.EvictionsTotal, "Total number of cache evictions", baseLabelNames, constLabels); err != nil {
		return nil, err
	}
	if p.clearsTotal, err = p.newCounterVec(names.ClearsTotal, "Total number of cache clears", baseLabelNames, constLabels); err != nil {
		return nil, err
	}
	if p.slotCount, err = p.newGaugeVec(names.SlotCount, "Current number of dispatch slots in use", baseLabelNames, constLabels); err != nil {
		return nil, err
	}
	if p.hitRate, err = p.newGaugeVec(names.HitRate, "Cache hit rate as a percentage", baseLabelNames, constLabels); err != nil {
		return nil, err
	}

	return p, nil
}

// ExportStats publishes a statistics snapshot. Counters receive the
// delta since the previous export for the same label set.
func (p *PrometheusExporter) ExportStats(stats Stats, labels Labels) error {
	promLabels := p.baseLabels(labels)

	p.mu.Lock()
	snap, ok := p.snapshots[labels.Fingerprint()]
	if !ok {
		snap = &statsSnapshot{}
		p.snapshots[labels.Fingerprint()] = snap
	}
	hits, misses, evictions, clears := snap.deltas(stats)
	p.mu.Unlock()

	p.hitsTotal.With(promLabels).Add(float64(hits))
	p.missesTotal.With(promLabels).Add(float64(misses))
	p.evictionsTotal.With(promLabels).Add(float64(evictions))
	p.clearsTotal.With(promLabels).Add(float64(clears))

	p.slotCount.With(promLabels).Set(float64(stats.SlotCount()))
	p.hitRate.With(promLabels).Set(stats.HitRate())
	return nil
}

// IncrementCounter increments an ad-hoc counter, creating it on first
// use.
func (p *PrometheusExporter) IncrementCounter(name string, labels Labels) error {
	p.mu.Lock()
	counter, ok := p.counters[name]
	if !ok {
		var err error
		counter, err = p.newCounterVec(name, "Counter: "+name, labelNames(labels), nil)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("create counter %s: %w", name, err)
		}
		p.counters[name] = counter
	}
	p.mu.Unlock()

	counter.With(prometheus.Labels(labels)).Inc()
	return nil
}

// RecordHistogram records a value in an ad-hoc histogram, creating it
// on first use.
func (p *PrometheusExporter) RecordHistogram(name string, value float64, labels Labels) error {
	p.mu.Lock()
	histogram, ok := p.histograms[name]
	if !ok {
		histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    "Histogram: " + name,
			Buckets: prometheus.DefBuckets,
		}, labelNames(labels))
		if err := p.registry.Register(histogram); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("create histogram %s: %w", name, err)
		}
		p.histograms[name] = histogram
	}
	p.mu.Unlock()

	histogram.With(prometheus.Labels(labels)).Observe(value)
	return nil
}

// SetGauge sets an ad-hoc gauge, creating it on first use.
func (p *PrometheusExporter) SetGauge(name string, value float64, labels Labels) error {
	p.mu.Lock()
	gauge, ok := p.gauges[name]
	if !ok {
		var err error
		gauge, err = p.newGaugeVec(name, "Gauge: "+name, labelNames(labels), nil)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("create gauge %s: %w", name, err)
		}
		p.gauges[name] = gauge
	}
	p.mu.Unlock()

	gauge.With(prometheus.Labels(labels)).Set(value)
	return nil
}

// Close is a no-op; Prometheus metrics need no explicit teardown.
func (p *PrometheusExporter) Close() error { return nil }

func (p *PrometheusExporter) newCounterVec(name, help string, names []string, constLabels prometheus.Labels) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        name,
		Help:        help,
		ConstLabels: constLabels,
	}, names)
	if err := p.registry.Register(counter); err != nil {
		return nil, err
	}
	return counter, nil
}

func (p *PrometheusExporter) newGaugeVec(name, help string, names []string, constLabels prometheus.Labels) (*prometheus.GaugeVec, error) {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        name,
		Help:        help,
		ConstLabels: constLabels,
	}, names)
	if err := p.registry.Register(gauge); err != nil {
		return nil, err
	}
	return gauge, nil
}

// baseLabels keeps only the standard per-method labels; unknown label
// keys would fail the metric's label-name contract.
func (p *PrometheusExporter) baseLabels(labels Labels) prometheus.Labels {
	out := prometheus.Labels{"class": "", "method": ""}
	for _, name := range baseLabelNames {
		if v, ok := labels[name]; ok {
			out[name] = v
		}
	}
	return out
}

func labelNames(labels Labels) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	return names
}

var _ Exporter = (*PrometheusExporter)(nil)
