// Package memotier provides two-tier method memoization for objects
// with explicitly declared mutable state, with per-method LRU
// dispatch caches, per-object LRU result caches, and observability
// through hooks, logging, and metrics exporters.
//
// # Overview
//
// memotier targets scientific and analytical code where objects own
// expensive derived computations: a method is computed once per
// (object identity, object state, arguments) combination and replayed
// from cache afterwards. Caching is two-tiered. Each wrapped method
// owns a dispatch cache mapping live objects to cache handles, bounded
// by an LRU budget shared across all instances. Each handle owns a
// small local cache mapping call keys to results, bounded by its own
// LRU budget. Mutating an object (as reported by its CacheState)
// changes the call key, so stale results are never replayed, while
// reverting the mutation makes the earlier results reachable again.
//
// # Key Features
//
//   - Per-method dispatch tier with LRU eviction across instances
//   - Per-object result tier with LRU eviction across calls
//   - State-aware call keys, with typed or untyped argument matching
//   - Method-scoped attribute dependencies via WithAttrs
//   - Recursive clearing and serialization stripping through object state
//   - Hook system for hit, miss, evict, and clear observation
//   - Structured logging and pluggable progress output
//   - Prometheus and OpenTelemetry metrics exporters
//
// # Basic Usage
//
// Embed Host in the participating type, declare its mutable state,
// and wrap the computation:
//
//	type Network struct {
//	    memotier.Host
//	    Directed bool
//	    links    [][]int
//	}
//
//	func (n *Network) CacheState() []any {
//	    return []any{n.Directed}
//	}
//
//	var class = memotier.MustClass("Network", nil)
//
//	var degree = memotier.Wrap0(class, "Degree", (*Network).computeDegree,
//	    memotier.WithProgressName("node degrees"))
//
//	func (n *Network) computeDegree() []int {
//	    // expensive
//	}
//
//	func (n *Network) Degree() []int { return degree.Call(n) }
//
// The first Call per (object, state) computes; repeated Calls replay:
//
//	d1 := net.Degree() // prints "Calculating node degrees..." and computes
//	d2 := net.Degree() // cache hit, no output
//
// # Configuration
//
// Customize sizing and behavior with fluent configuration:
//
//	config := memotier.NewDefaultConfig().
//	    WithGlobalMaxSize(64).
//	    WithLocalMaxSize(8).
//	    WithTypedLocalKeys(false).
//	    WithProgressWriter(io.Discard)
//
//	class, err := memotier.NewClass("Network", config)
//
// Caching can be disabled wholesale for debugging; wrapped methods
// then call through unconditionally:
//
//	class := memotier.MustClass("Network", memotier.NewDefaultConfig().WithEnabled(false))
//
// # Lifecycle
//
// An object's Close releases its result caches; dispatch slots are
// reclaimed by their own eviction. Clear empties every method cache
// reachable from an object, recursing through Cacheable values in its
// state. StripTransient drops the cache bookkeeping before
// serialization; it requires cleared caches.
//
//	memotier.Clear(net)
//	memotier.StripTransient(net)
//
// # Metrics Integration
//
// Export per-method statistics to Prometheus:
//
//	import "github.com/vnykmshr/memotier-go/pkg/metrics"
//
//	exporter, _ := metrics.NewPrometheusExporter(metrics.NewDefaultConfig())
//	config := memotier.NewDefaultConfig().
//	    WithMetricsExporter(exporter, 30*time.Second).
//	    WithMetricsLabels(map[string]string{"service": "analysis"})
//
//	class, _ := memotier.NewClass("Network", config)
//	defer class.Close()
//
// # Concurrency
//
// Wrapped calls and cache maintenance are designed for use from a
// single goroutine per class, matching the sequential analysis
// pipelines the package is built for. The metrics reporter runs on
// its own goroutine and only reads atomic counters.
package memotier
