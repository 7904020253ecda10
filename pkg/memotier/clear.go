package memotier

import (
	"reflect"
	"strings"
	"sync"
)

// typeIndex maps receiver types to their wrapped methods. The
// recursive operations start from an object rather than a Class, so
// they need a way back from a value to the methods wrapped for it.
var (
	typeMu    sync.RWMutex
	typeIndex = map[reflect.Type][]*method{}
)

func registerForType(receiver reflect.Type, m *method) {
	typeMu.Lock()
	typeIndex[receiver] = append(typeIndex[receiver], m)
	typeMu.Unlock()
}

func methodsFor(o Cacheable) []*method {
	typeMu.RLock()
	defer typeMu.RUnlock()
	return typeIndex[reflect.TypeOf(o)]
}

// Clear empties every cached method wrapped for o's type, and then
// does the same for any Cacheable value in o's state, recursively.
// Method caches are shared across instances, so clearing through one
// object clears them for all.
func Clear(o Cacheable) {
	ClearPrefix(o, "")
}

// ClearPrefix is Clear restricted to methods whose registered name
// starts with prefix. The empty prefix matches everything.
func ClearPrefix(o Cacheable, prefix string) {
	clearVisit(o, prefix, make(map[*Host]bool))
}

func clearVisit(o Cacheable, prefix string, seen map[*Host]bool) {
	host := o.cacheHost()
	if seen[host] {
		return
	}
	seen[host] = true

	for _, m := range methodsFor(o) {
		if strings.HasPrefix(m.name, prefix) {
			m.clearAll()
		}
	}
	for _, v := range o.CacheState() {
		if nested, ok := v.(Cacheable); ok {
			clearVisit(nested, prefix, seen)
		}
	}
}

// StripTransient drops the cache bookkeeping from o and from every
// Cacheable value in its state, recursively, leaving the objects in
// the shape a fresh deserialization would produce. All caches must be
// cleared first; stripping a live handle panics.
func StripTransient(o Cacheable) {
	stripVisit(o, make(map[*Host]bool))
}

func stripVisit(o Cacheable, seen map[*Host]bool) {
	host := o.cacheHost()
	if seen[host] {
		return
	}
	seen[host] = true

	for _, v := range o.CacheState() {
		if nested, ok := v.(Cacheable); ok {
			stripVisit(nested, seen)
		}
	}
	host.strip()
}
