package metrics

import "testing"

// fakeStats is a fixed statistics snapshot for exporter tests.
type fakeStats struct {
	hits, misses, evictions, clears, slots int64
	hitRate                                float64
}

func (f *fakeStats) Hits() int64      { return f.hits }
func (f *fakeStats) Misses() int64    { return f.misses }
func (f *fakeStats) Evictions() int64 { return f.evictions }
func (f *fakeStats) Clears() int64    { return f.clears }
func (f *fakeStats) SlotCount() int64 { return f.slots }
func (f *fakeStats) HitRate() float64 { return f.hitRate }

func TestLabelsFingerprint(t *testing.T) {
	a := Labels{"class": "Network", "method": "Degree"}
	b := Labels{"method": "Degree", "class": "Network"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("Expected order-independent fingerprints")
	}

	c := Labels{"class": "Network", "method": "Spectrum"}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("Expected distinct fingerprints for distinct labels")
	}

	if Labels(nil).Fingerprint() != "" {
		t.Fatal("Expected empty fingerprint for nil labels")
	}
}

func TestCounterDelta(t *testing.T) {
	var last int64

	if got := counterDelta(&last, 5); got != 5 {
		t.Fatalf("Expected first delta 5, got %d", got)
	}
	if got := counterDelta(&last, 8); got != 3 {
		t.Fatalf("Expected delta 3, got %d", got)
	}
	if got := counterDelta(&last, 8); got != 0 {
		t.Fatalf("Expected delta 0, got %d", got)
	}

	// A counter that went backwards was reset by a clear; the current
	// value is the whole delta.
	if got := counterDelta(&last, 2); got != 2 {
		t.Fatalf("Expected reset delta 2, got %d", got)
	}
	if got := counterDelta(&last, 4); got != 2 {
		t.Fatalf("Expected delta 2 after reset, got %d", got)
	}
}

func TestSnapshotDeltas(t *testing.T) {
	snap := &statsSnapshot{}

	hits, misses, evictions, clears := snap.deltas(&fakeStats{hits: 10, misses: 4, evictions: 2, clears: 1})
	if hits != 10 || misses != 4 || evictions != 2 || clears != 1 {
		t.Fatalf("Unexpected first deltas: %d %d %d %d", hits, misses, evictions, clears)
	}

	hits, misses, evictions, clears = snap.deltas(&fakeStats{hits: 12, misses: 4, evictions: 3, clears: 1})
	if hits != 2 || misses != 0 || evictions != 1 || clears != 0 {
		t.Fatalf("Unexpected second deltas: %d %d %d %d", hits, misses, evictions, clears)
	}
}

func TestDefaultMetricNames(t *testing.T) {
	names := DefaultMetricNames()
	if names.HitsTotal != "memotier_hits_total" {
		t.Fatalf("Unexpected hits metric name %q", names.HitsTotal)
	}
	if names.HitRate != "memotier_hit_rate" {
		t.Fatalf("Unexpected hit rate metric name %q", names.HitRate)
	}
}

func TestNoOpExporter(t *testing.T) {
	e := NewNoOpExporter()
	if err := e.ExportStats(&fakeStats{hits: 1}, Labels{"class": "x"}); err != nil {
		t.Fatalf("ExportStats failed: %v", err)
	}
	if err := e.IncrementCounter("c", nil); err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if err := e.RecordHistogram("h", 1.0, nil); err != nil {
		t.Fatalf("RecordHistogram failed: %v", err)
	}
	if err := e.SetGauge("g", 1.0, nil); err != nil {
		t.Fatalf("SetGauge failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
