package memotier

import "sync/atomic"

// Stats holds the dispatch-tier counters for one wrapped method. The
// counters are atomic so the metrics reporter can read them while the
// owning goroutine runs cache operations.
type Stats struct {
	// hits counts dispatch lookups that found a live handle.
	hits int64

	// misses counts dispatch lookups that had to create or revive a
	// handle.
	misses int64

	// evictions counts handles and local entries dropped under size
	// pressure or lifecycle events.
	evictions int64

	// clears counts whole-method cache clears.
	clears int64

	// slotCount is the current number of dispatch slots in use.
	slotCount int64
}

// Hits returns the number of dispatch hits.
func (s *Stats) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the number of dispatch misses.
func (s *Stats) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// Evictions returns the number of evictions.
func (s *Stats) Evictions() int64 {
	return atomic.LoadInt64(&s.evictions)
}

// Clears returns the number of whole-method clears.
func (s *Stats) Clears() int64 {
	return atomic.LoadInt64(&s.clears)
}

// SlotCount returns the current number of dispatch slots.
func (s *Stats) SlotCount() int64 {
	return atomic.LoadInt64(&s.slotCount)
}

// Total returns the total number of dispatch lookups.
func (s *Stats) Total() int64 {
	return s.Hits() + s.Misses()
}

// HitRate returns the dispatch hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Hits()) / float64(total) * 100
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.clears, 0)
	atomic.StoreInt64(&s.slotCount, 0)
}

// resetLookups zeroes the lookup counters after a clear, leaving the
// clear count itself intact.
func (s *Stats) resetLookups() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.slotCount, 0)
}

func (s *Stats) incHits()      { atomic.AddInt64(&s.hits, 1) }
func (s *Stats) incMisses()    { atomic.AddInt64(&s.misses, 1) }
func (s *Stats) incEvictions() { atomic.AddInt64(&s.evictions, 1) }
func (s *Stats) incClears()    { atomic.AddInt64(&s.clears, 1) }

func (s *Stats) setSlotCount(n int64) { atomic.StoreInt64(&s.slotCount, n) }

// CacheInfo is a point-in-time snapshot of one cache tier, in the
// shape familiar from memoization wrappers: lookup counters plus the
// current and maximum size.
type CacheInfo struct {
	Hits     int64
	Misses   int64
	CurrSize int
	MaxSize  int
}
