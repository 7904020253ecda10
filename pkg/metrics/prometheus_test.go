package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestPrometheusExporter(t *testing.T) (*PrometheusExporter, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	p, err := NewPrometheusExporter(nil, &PrometheusConfig{Registry: registry})
	if err != nil {
		t.Fatalf("Failed to create exporter: %v", err)
	}
	return p, registry
}

// gatherValue reads one metric value for a label set from the
// registry, so assertions go through the same path a scrape would.
func gatherValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metric:
		for _, m := range family.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("Metric %s with labels %v not found", name, labels)
	return 0
}

func TestPrometheusExportStats(t *testing.T) {
	p, registry := newTestPrometheusExporter(t)
	labels := Labels{"class": "Network", "method": "Degree"}

	stats := &fakeStats{hits: 10, misses: 5, evictions: 2, clears: 1, slots: 3, hitRate: 66.7}
	if err := p.ExportStats(stats, labels); err != nil {
		t.Fatalf("ExportStats failed: %v", err)
	}

	series := map[string]string{"class": "Network", "method": "Degree"}
	if got := gatherValue(t, registry, "memotier_hits_total", series); got != 10 {
		t.Fatalf("Expected 10 hits exported, got %f", got)
	}
	if got := gatherValue(t, registry, "memotier_misses_total", series); got != 5 {
		t.Fatalf("Expected 5 misses exported, got %f", got)
	}
	if got := gatherValue(t, registry, "memotier_slots_count", series); got != 3 {
		t.Fatalf("Expected 3 slots, got %f", got)
	}
	if got := gatherValue(t, registry, "memotier_hit_rate", series); got != 66.7 {
		t.Fatalf("Expected hit rate 66.7, got %f", got)
	}
}

func TestPrometheusCounterDeltas(t *testing.T) {
	p, registry := newTestPrometheusExporter(t)
	labels := Labels{"class": "Network", "method": "Degree"}
	series := map[string]string{"class": "Network", "method": "Degree"}

	p.ExportStats(&fakeStats{hits: 10}, labels)
	p.ExportStats(&fakeStats{hits: 14}, labels)

	if got := gatherValue(t, registry, "memotier_hits_total", series); got != 14 {
		t.Fatalf("Expected cumulative 14 hits after delta exports, got %f", got)
	}

	// Counter reset upstream must not panic the Prometheus counter
	p.ExportStats(&fakeStats{hits: 3}, labels)
	if got := gatherValue(t, registry, "memotier_hits_total", series); got != 17 {
		t.Fatalf("Expected 17 after reset handling, got %f", got)
	}
}

func TestPrometheusSeparateLabelSets(t *testing.T) {
	p, registry := newTestPrometheusExporter(t)

	p.ExportStats(&fakeStats{hits: 5}, Labels{"class": "Network", "method": "Degree"})
	p.ExportStats(&fakeStats{hits: 7}, Labels{"class": "Network", "method": "Spectrum"})

	degree := gatherValue(t, registry, "memotier_hits_total",
		map[string]string{"class": "Network", "method": "Degree"})
	spectrum := gatherValue(t, registry, "memotier_hits_total",
		map[string]string{"class": "Network", "method": "Spectrum"})
	if degree != 5 || spectrum != 7 {
		t.Fatalf("Expected per-method series to track independently, got %f and %f", degree, spectrum)
	}
}

func TestPrometheusAdHocMetrics(t *testing.T) {
	p, registry := newTestPrometheusExporter(t)
	labels := Labels{"kind": "test"}
	series := map[string]string{"kind": "test"}

	if err := p.IncrementCounter("test_counter", labels); err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if err := p.IncrementCounter("test_counter", labels); err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if got := gatherValue(t, registry, "test_counter", series); got != 2 {
		t.Fatalf("Expected counter at 2, got %f", got)
	}

	if err := p.SetGauge("test_gauge", 12.5, labels); err != nil {
		t.Fatalf("SetGauge failed: %v", err)
	}
	if got := gatherValue(t, registry, "test_gauge", series); got != 12.5 {
		t.Fatalf("Expected gauge at 12.5, got %f", got)
	}

	if err := p.RecordHistogram("test_histogram", 0.25, labels); err != nil {
		t.Fatalf("RecordHistogram failed: %v", err)
	}
	if got := gatherValue(t, registry, "test_histogram", series); got != 1 {
		t.Fatalf("Expected one histogram observation, got %f", got)
	}
}

func TestPrometheusConstLabels(t *testing.T) {
	config := NewDefaultConfig()
	config.Labels = Labels{"service": "analysis"}

	registry := prometheus.NewRegistry()
	p, err := NewPrometheusExporter(config, &PrometheusConfig{Registry: registry})
	if err != nil {
		t.Fatalf("Failed to create exporter: %v", err)
	}
	if err := p.ExportStats(&fakeStats{hits: 1}, Labels{"class": "x", "method": "y"}); err != nil {
		t.Fatalf("ExportStats failed: %v", err)
	}
	if got := gatherValue(t, registry, "memotier_hits_total",
		map[string]string{"class": "x", "method": "y", "service": "analysis"}); got != 1 {
		t.Fatalf("Expected const label on exported series, got %f", got)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewPrometheusExporter(nil, &PrometheusConfig{Registry: registry}); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if _, err := NewPrometheusExporter(nil, &PrometheusConfig{Registry: registry}); err == nil {
		t.Fatal("Expected duplicate registration to fail")
	}
}
