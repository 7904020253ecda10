package memotier

import "testing"

func TestStatsCounters(t *testing.T) {
	s := &Stats{}
	s.incHits()
	s.incHits()
	s.incMisses()
	s.incEvictions()
	s.incClears()
	s.setSlotCount(5)

	if s.Hits() != 2 || s.Misses() != 1 {
		t.Fatalf("Expected hits=2 misses=1, got hits=%d misses=%d", s.Hits(), s.Misses())
	}
	if s.Evictions() != 1 || s.Clears() != 1 || s.SlotCount() != 5 {
		t.Fatalf("Unexpected counters: evictions=%d clears=%d slots=%d",
			s.Evictions(), s.Clears(), s.SlotCount())
	}
	if s.Total() != 3 {
		t.Fatalf("Expected total 3, got %d", s.Total())
	}
}

func TestStatsHitRate(t *testing.T) {
	s := &Stats{}
	if s.HitRate() != 0 {
		t.Fatalf("Expected 0%% hit rate with no lookups, got %f", s.HitRate())
	}

	s.incHits()
	s.incHits()
	s.incHits()
	s.incMisses()
	if got := s.HitRate(); got != 75.0 {
		t.Fatalf("Expected 75%% hit rate, got %f", got)
	}
}

func TestStatsReset(t *testing.T) {
	s := &Stats{}
	s.incHits()
	s.incMisses()
	s.incEvictions()
	s.incClears()
	s.setSlotCount(2)

	s.Reset()
	if s.Hits() != 0 || s.Misses() != 0 || s.Evictions() != 0 || s.Clears() != 0 || s.SlotCount() != 0 {
		t.Fatal("Expected all counters zeroed by Reset")
	}
}

func TestStatsResetLookupsKeepsClears(t *testing.T) {
	s := &Stats{}
	s.incHits()
	s.incMisses()
	s.incEvictions()
	s.incClears()
	s.setSlotCount(2)

	s.resetLookups()
	if s.Hits() != 0 || s.Misses() != 0 || s.Evictions() != 0 || s.SlotCount() != 0 {
		t.Fatal("Expected lookup counters zeroed")
	}
	if s.Clears() != 1 {
		t.Fatalf("Expected clear count preserved, got %d", s.Clears())
	}
}

func TestEvictReasonString(t *testing.T) {
	cases := map[EvictReason]string{
		EvictReasonGlobalLRU:   "GlobalLRU",
		EvictReasonLocalLRU:    "LocalLRU",
		EvictReasonOwnerClosed: "OwnerClosed",
		EvictReasonCleared:     "Cleared",
		EvictReason(99):        "Unknown",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Fatalf("Expected %q, got %q", want, got)
		}
	}
}
