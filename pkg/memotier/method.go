package memotier

import (
	"fmt"
	"reflect"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vnykmshr/memotier-go/internal/entry"
	"github.com/vnykmshr/memotier-go/internal/handle"
)

// nextMethodID keys the per-object handle references; it is unique
// across all classes in the process.
var nextMethodID uint64

// attrField is a declared method-specific mutable dependency, resolved
// to a struct field at wrap time.
type attrField struct {
	name  string
	index []int
}

// method is the core every Func wrapper shares: the per-method
// dispatch cache mapping objects to their cache handles, the
// dispatch-tier statistics, the call-key construction, and the handle
// lifecycle plumbing.
type method struct {
	class    *Class
	id       uint64
	name     string
	progress string
	attrs    []attrField

	disabled  bool
	global    *lru.Cache[uint64, *handle.Handle]
	globalMax int
	stats     *Stats
	keyFn     KeyGenFunc
	local     LRUParams

	// clearing flips the eviction reason while Purge drains the
	// dispatch cache.
	clearing bool
}

// resolve maps an object to its cache handle, creating one on the
// first dispatch miss. Both hit and miss promote the slot to most
// recently used; an insert over budget evicts the least recently used
// slot, releasing its handle and destroying the local cache it owns.
func (m *method) resolve(o Cacheable) *handle.Handle {
	host := o.cacheHost()
	id := host.ident()
	if hd, ok := m.global.Get(id); ok {
		m.stats.incHits()
		return hd
	}
	m.stats.incMisses()

	// Only live objects may populate the dispatch cache.
	if host.Closed() {
		panic(fmt.Sprintf("memotier: %s dispatched for a closed object", m.name))
	}

	// The object may still privately reference a live handle whose
	// slot was evicted while a call was in flight; revive it rather
	// than discarding its results.
	hd := host.handleFor(m.id)
	if hd == nil || !hd.Alive() {
		var err error
		hd, err = handle.New(m.local.MaxSize, m.localEvict)
		if err != nil {
			panic(fmt.Sprintf("memotier: %s: %v", m.name, err))
		}
		host.setHandle(m.id, hd)
	}

	hd.Retain() // the slot's strong reference
	m.global.Add(id, hd)
	m.stats.setSlotCount(int64(m.global.Len()))
	return hd
}

// call is the cached invocation path. compute must run the
// undecorated computation for exactly this invocation.
func (m *method) call(o Cacheable, args []any, compute func() any) any {
	if m.disabled {
		m.emitProgress(o)
		return compute()
	}

	hd := m.resolve(o)
	hd.Retain() // in-flight reference, mirrors the caller's stack
	defer hd.Release()

	key := m.callKey(o, args)
	if e, ok := hd.Lookup(key); ok {
		m.class.hooks().invokeOnHit(m.name, key, e.Value)
		return e.Value
	}

	m.class.hooks().invokeOnMiss(m.name, key)
	m.emitProgress(o)
	v := compute()
	hd.Store(key, entry.New(v))
	return v
}

// callKey builds the local cache key: state fingerprint, method name,
// the declared attribute count and current values, then the call
// arguments.
func (m *method) callKey(o Cacheable, args []any) string {
	parts := make([]any, 0, 3+len(m.attrs)+len(args))
	parts = append(parts, StateHash(o), m.name, len(m.attrs))
	if len(m.attrs) > 0 {
		rv := reflect.ValueOf(o).Elem()
		for _, a := range m.attrs {
			parts = append(parts, rv.FieldByIndex(a.index).Interface())
		}
	}
	parts = append(parts, args...)
	return m.keyFn(parts)
}

// emitProgress prints the progress line for named methods, unless the
// object asks for silence.
func (m *method) emitProgress(o Cacheable) {
	if m.progress == "" {
		return
	}
	if s, ok := o.(Silenceable); ok && s.SilenceLevel() > 1 {
		return
	}
	fmt.Fprintf(m.class.progressWriter(), "Calculating %s...\n", m.progress)
}

// clearAll empties the method's dispatch cache for all instances.
// Every slot release tears down its handle, which destroys the local
// cache it owns. Lookup counters reset, as for a fresh cache.
func (m *method) clearAll() {
	if m.disabled {
		return
	}
	m.clearing = true
	m.global.Purge()
	m.clearing = false
	m.stats.resetLookups()
	m.stats.incClears()
	m.class.hooks().invokeOnClear(m.name)
	m.class.logger().Debug("method cache cleared", F("method", m.name))
}

// info snapshots the dispatch-tier statistics.
func (m *method) info() (CacheInfo, bool) {
	if m.disabled {
		return CacheInfo{}, false
	}
	return CacheInfo{
		Hits:     m.stats.Hits(),
		Misses:   m.stats.Misses(),
		CurrSize: m.global.Len(),
		MaxSize:  m.globalMax,
	}, true
}

// localInfo snapshots one object's local cache without touching
// dispatch recency.
func (m *method) localInfo(o Cacheable) (CacheInfo, bool) {
	if m.disabled {
		return CacheInfo{}, false
	}
	hd := o.cacheHost().handleFor(m.id)
	if hd == nil || !hd.Alive() {
		return CacheInfo{}, false
	}
	hits, misses, currSize, maxSize := hd.Info()
	return CacheInfo{Hits: hits, Misses: misses, CurrSize: currSize, MaxSize: maxSize}, true
}

// globalEvict runs when a dispatch slot leaves the cache, for any
// reason; it drops the slot's strong reference.
func (m *method) globalEvict(id uint64, hd *handle.Handle) {
	reason := EvictReasonGlobalLRU
	if m.clearing {
		reason = EvictReasonCleared
	} else {
		m.stats.incEvictions()
	}
	m.class.hooks().invokeOnEvict(m.name, "", reason)
	m.class.logger().Debug("dispatch slot dropped",
		F("method", m.name), F("object", id), F("reason", reason))
	hd.Release()
}

// localEvict observes entries leaving a local cache owned by one of
// this method's handles.
func (m *method) localEvict(key string, _ *entry.Entry, cause handle.EvictCause) {
	if cause == handle.CauseCapacity {
		m.stats.incEvictions()
	}
	m.class.hooks().invokeOnEvict(m.name, key, localEvictReason(cause))
}

func localEvictReason(cause handle.EvictCause) EvictReason {
	switch cause {
	case handle.CauseOwnerClosed:
		return EvictReasonOwnerClosed
	case handle.CauseTeardown:
		return EvictReasonCleared
	default:
		return EvictReasonLocalLRU
	}
}

func newMethodID() uint64 {
	return atomic.AddUint64(&nextMethodID, 1)
}
