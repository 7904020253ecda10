// Package handle couples the lifetime of a per-object result cache to
// the holders that keep it reachable: the per-method dispatch cache
// slot, and the call currently executing against it. When the last
// holder releases its reference, the result cache is torn down exactly
// once. The owning object's reference is deliberately non-owning: a
// dead handle found there is discarded and replaced on the next
// dispatch.
package handle

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vnykmshr/memotier-go/internal/entry"
)

// EvictCause says why an entry left the local cache.
type EvictCause int

const (
	// CauseCapacity marks an LRU eviction under size pressure.
	CauseCapacity EvictCause = iota

	// CauseOwnerClosed marks a purge triggered by the owning object
	// being closed.
	CauseOwnerClosed

	// CauseTeardown marks the purge that runs when the handle loses
	// its last strong reference.
	CauseTeardown
)

// EvictFunc observes entries leaving the local cache.
type EvictFunc func(key string, e *entry.Entry, cause EvictCause)

// Handle is the reference-counted owner of one local result cache for
// a single (object, method) pair.
//
// Reference holders are the method's dispatch slot and any in-flight
// call. The owning object keeps only a weak pointer to the handle and
// must check Alive before reuse. The zero reference state before the
// first Retain does not tear the handle down; teardown happens only
// when Release drops the count back to zero.
type Handle struct {
	local   *lru.Cache[string, *entry.Entry]
	maxSize int

	hits   int64
	misses int64

	refs    int
	dead    bool
	cause   EvictCause
	onEvict EvictFunc
}

// New creates a handle owning an empty local cache bounded to maxSize
// entries. onEvict may be nil.
func New(maxSize int, onEvict EvictFunc) (*Handle, error) {
	h := &Handle{
		maxSize: maxSize,
		cause:   CauseCapacity,
		onEvict: onEvict,
	}
	local, err := lru.NewWithEvict[string, *entry.Entry](maxSize, func(key string, e *entry.Entry) {
		if h.onEvict != nil {
			h.onEvict(key, e, h.cause)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create local cache: %w", err)
	}
	h.local = local
	return h, nil
}

// Retain adds a strong reference. It panics on a dead handle; only
// live handles may be re-shared.
func (h *Handle) Retain() {
	if h.dead {
		panic("handle: retain on dead handle")
	}
	h.refs++
}

// Release drops a strong reference. When the count reaches zero the
// handle is destroyed: the local cache is purged and the handle is
// marked dead. Destruction runs at most once.
func (h *Handle) Release() {
	if h.dead {
		return
	}
	h.refs--
	if h.refs > 0 {
		return
	}
	h.purge(CauseTeardown)
	h.dead = true
}

// Alive reports whether the handle still owns a usable local cache.
func (h *Handle) Alive() bool {
	return !h.dead
}

// OwnerClosed empties the local cache because the owning object was
// closed. The handle itself stays alive while a dispatch slot still
// references it; the later Release of that slot is a no-op purge.
func (h *Handle) OwnerClosed() {
	if h.dead {
		return
	}
	h.purge(CauseOwnerClosed)
}

// Lookup returns the entry stored under key, promoting it to most
// recently used. The per-handle hit/miss counters track local lookups.
func (h *Handle) Lookup(key string) (*entry.Entry, bool) {
	e, ok := h.local.Get(key)
	if !ok {
		h.misses++
		return nil, false
	}
	h.hits++
	e.Touch()
	return e, true
}

// Store inserts a computed result, evicting the least recently used
// entry when the cache is full.
func (h *Handle) Store(key string, e *entry.Entry) {
	h.local.Add(key, e)
}

// Len returns the number of cached results.
func (h *Handle) Len() int {
	return h.local.Len()
}

// Info returns the local lookup counters and size bounds.
func (h *Handle) Info() (hits, misses int64, currSize, maxSize int) {
	return h.hits, h.misses, h.local.Len(), h.maxSize
}

func (h *Handle) purge(cause EvictCause) {
	h.cause = cause
	h.local.Purge()
	h.cause = CauseCapacity
}
