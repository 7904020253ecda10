package memotier

import (
	"sync/atomic"

	"github.com/vnykmshr/memotier-go/internal/handle"
)

// Cacheable is implemented by objects whose methods participate in
// caching. Embed Host to satisfy the unexported accessor, and declare
// the mutable state relevant to cache correctness via CacheState.
type Cacheable interface {
	// CacheState returns an ordered snapshot of the mutable
	// attributes that affect the correctness of every cached method
	// on the type. An empty slice declares the object effectively
	// immutable for caching purposes. Values that are themselves
	// Cacheable are keyed by identity plus their own state and are
	// visited by recursive clears.
	CacheState() []any

	// cacheHost is provided by embedding Host.
	cacheHost() *Host
}

// Silenceable optionally gates progress messages. Levels above 1
// suppress the "Calculating ..." line; objects that do not implement
// the interface default to level 0 and emit it.
type Silenceable interface {
	SilenceLevel() int
}

// nextHostID is the process-wide identity source for hosts.
var nextHostID uint64

// Host carries the per-object cache bookkeeping: a process-local
// identity and the non-owning references to this object's cache
// handles. Embed it (by value) in any type implementing Cacheable;
// the zero value is ready for use.
//
// All fields are unexported and transient: a Host serializes as an
// empty struct, and StripTransient resets it for that purpose.
type Host struct {
	id      uint64
	handles map[uint64]*handle.Handle
	closed  bool
}

func (h *Host) cacheHost() *Host { return h }

// Close releases the object's local caches, the way a destructor
// would: every live handle the object references is purged. Dispatch
// slots pointing at those handles are left in place and reclaimed by
// their own eviction. Close is idempotent; cached methods must not be
// called on a closed object.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	for _, hd := range h.handles {
		hd.OwnerClosed()
	}
}

// Closed reports whether Close has been called.
func (h *Host) Closed() bool {
	return h.closed
}

// ident returns the object's process-local identity, assigning one on
// first use.
func (h *Host) ident() uint64 {
	if h.id == 0 {
		h.id = atomic.AddUint64(&nextHostID, 1)
	}
	return h.id
}

// handleFor returns the object's handle for a method, or nil.
func (h *Host) handleFor(methodID uint64) *handle.Handle {
	return h.handles[methodID]
}

// setHandle records a non-owning reference to a method's handle.
func (h *Host) setHandle(methodID uint64, hd *handle.Handle) {
	if h.handles == nil {
		h.handles = make(map[uint64]*handle.Handle)
	}
	h.handles[methodID] = hd
}

// strip removes the dead handle references. It panics when any handle
// is still alive: caches must be cleared before stripping.
func (h *Host) strip() {
	for id, hd := range h.handles {
		if hd.Alive() {
			panic("memotier: strip of a live cache handle, clear caches first")
		}
		delete(h.handles, id)
	}
	h.id = 0
}
