package memotier

// Hooks defines event callbacks for cache operations. All hooks run
// synchronously on the calling goroutine; keep them cheap.
type Hooks struct {
	// OnHit is called when a call key is found in a local cache.
	OnHit []OnHitHook

	// OnMiss is called when a call key is not found and the
	// underlying computation runs.
	OnMiss []OnMissHook

	// OnEvict is called when a cached result leaves a local cache,
	// or when a dispatch slot is evicted.
	OnEvict []OnEvictHook

	// OnClear is called when a method's caches are cleared across
	// all instances.
	OnClear []OnClearHook
}

// Hook function types.
type (
	// OnHitHook observes a local cache hit.
	OnHitHook func(method, key string, value any)

	// OnMissHook observes a local cache miss.
	OnMissHook func(method, key string)

	// OnEvictHook observes an eviction and its reason. key is empty
	// for dispatch-slot evictions, which drop a whole local cache.
	OnEvictHook func(method, key string, reason EvictReason)

	// OnClearHook observes a whole-method clear.
	OnClearHook func(method string)
)

// EvictReason says why something left a cache.
type EvictReason int

const (
	// EvictReasonGlobalLRU marks a dispatch slot evicted under the
	// per-method slot budget.
	EvictReasonGlobalLRU EvictReason = iota

	// EvictReasonLocalLRU marks a result evicted under the
	// per-object entry budget.
	EvictReasonLocalLRU

	// EvictReasonOwnerClosed marks results dropped because their
	// owning object was closed.
	EvictReasonOwnerClosed

	// EvictReasonCleared marks results dropped by an explicit clear
	// or by the teardown of their cache handle.
	EvictReasonCleared
)

func (r EvictReason) String() string {
	switch r {
	case EvictReasonGlobalLRU:
		return "GlobalLRU"
	case EvictReasonLocalLRU:
		return "LocalLRU"
	case EvictReasonOwnerClosed:
		return "OwnerClosed"
	case EvictReasonCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// AddOnHit adds an OnHit hook.
func (h *Hooks) AddOnHit(hook OnHitHook) {
	h.OnHit = append(h.OnHit, hook)
}

// AddOnMiss adds an OnMiss hook.
func (h *Hooks) AddOnMiss(hook OnMissHook) {
	h.OnMiss = append(h.OnMiss, hook)
}

// AddOnEvict adds an OnEvict hook.
func (h *Hooks) AddOnEvict(hook OnEvictHook) {
	h.OnEvict = append(h.OnEvict, hook)
}

// AddOnClear adds an OnClear hook.
func (h *Hooks) AddOnClear(hook OnClearHook) {
	h.OnClear = append(h.OnClear, hook)
}

func (h *Hooks) invokeOnHit(method, key string, value any) {
	if h == nil {
		return
	}
	for _, hook := range h.OnHit {
		hook(method, key, value)
	}
}

func (h *Hooks) invokeOnMiss(method, key string) {
	if h == nil {
		return
	}
	for _, hook := range h.OnMiss {
		hook(method, key)
	}
}

func (h *Hooks) invokeOnEvict(method, key string, reason EvictReason) {
	if h == nil {
		return
	}
	for _, hook := range h.OnEvict {
		hook(method, key, reason)
	}
}

func (h *Hooks) invokeOnClear(method string) {
	if h == nil {
		return
	}
	for _, hook := range h.OnClear {
		hook(method)
	}
}
