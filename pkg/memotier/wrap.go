package memotier

import "reflect"

// Option configures one wrapped method.
type Option func(*wrapOptions)

type wrapOptions struct {
	progress string
	attrs    []string
	keyFn    KeyGenFunc
}

// WithProgressName names the method in a human-readable progress line
// emitted on every true local-cache miss.
func WithProgressName(name string) Option {
	return func(o *wrapOptions) {
		o.progress = name
	}
}

// WithAttrs declares exported field names whose current values at
// call time are folded into the call key. This scopes invalidation to
// one method without widening the type's CacheState. The fields are
// validated against the receiver type at wrap time.
func WithAttrs(fields ...string) Option {
	return func(o *wrapOptions) {
		o.attrs = append(o.attrs, fields...)
	}
}

// WithKeyFunc overrides key generation for this method only.
func WithKeyFunc(fn KeyGenFunc) Option {
	return func(o *wrapOptions) {
		o.keyFn = fn
	}
}

func applyOptions(opts []Option) *wrapOptions {
	o := &wrapOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// cast converts a cached value back to the declared result type,
// mapping an untyped nil onto the zero value.
func cast[R any](v any) R {
	if v == nil {
		var zero R
		return zero
	}
	return v.(R)
}

// Func0 is the cache wrapper for a niladic method.
type Func0[T Cacheable, R any] struct {
	m  *method
	fn func(T) R
}

// Wrap0 wraps a computation with no arguments beyond its receiver.
// Compose the returned wrapper explicitly into the method:
//
//	var degree = memotier.Wrap0(class, "Degree", (*Network).degree)
//
//	func (n *Network) Degree() []int { return degree.Call(n) }
func Wrap0[T Cacheable, R any](c *Class, name string, fn func(T) R, opts ...Option) *Func0[T, R] {
	return &Func0[T, R]{m: c.register(name, reflect.TypeFor[T](), applyOptions(opts)), fn: fn}
}

// Call invokes the computation through the cache.
func (f *Func0[T, R]) Call(o T) R {
	return cast[R](f.m.call(o, nil, func() any { return f.fn(o) }))
}

// Unwrapped invokes the undecorated computation, bypassing the cache.
func (f *Func0[T, R]) Unwrapped(o T) R { return f.fn(o) }

// CacheInfo reports the dispatch-tier statistics shared across all
// instances. ok is false when caching is disabled.
func (f *Func0[T, R]) CacheInfo() (CacheInfo, bool) { return f.m.info() }

// LocalInfo reports one object's local cache statistics. ok is false
// when the object has no live local cache for this method.
func (f *Func0[T, R]) LocalInfo(o T) (CacheInfo, bool) { return f.m.localInfo(o) }

// Clear empties this method's caches for all instances.
func (f *Func0[T, R]) Clear() { f.m.clearAll() }

// Func1 is the cache wrapper for a one-argument method.
type Func1[T Cacheable, A1, R any] struct {
	m  *method
	fn func(T, A1) R
}

// Wrap1 wraps a computation taking one argument.
func Wrap1[T Cacheable, A1, R any](c *Class, name string, fn func(T, A1) R, opts ...Option) *Func1[T, A1, R] {
	return &Func1[T, A1, R]{m: c.register(name, reflect.TypeFor[T](), applyOptions(opts)), fn: fn}
}

// Call invokes the computation through the cache.
func (f *Func1[T, A1, R]) Call(o T, a1 A1) R {
	return cast[R](f.m.call(o, []any{a1}, func() any { return f.fn(o, a1) }))
}

// Unwrapped invokes the undecorated computation, bypassing the cache.
func (f *Func1[T, A1, R]) Unwrapped(o T, a1 A1) R { return f.fn(o, a1) }

// CacheInfo reports the dispatch-tier statistics shared across all
// instances. ok is false when caching is disabled.
func (f *Func1[T, A1, R]) CacheInfo() (CacheInfo, bool) { return f.m.info() }

// LocalInfo reports one object's local cache statistics.
func (f *Func1[T, A1, R]) LocalInfo(o T) (CacheInfo, bool) { return f.m.localInfo(o) }

// Clear empties this method's caches for all instances.
func (f *Func1[T, A1, R]) Clear() { f.m.clearAll() }

// Func2 is the cache wrapper for a two-argument method.
type Func2[T Cacheable, A1, A2, R any] struct {
	m  *method
	fn func(T, A1, A2) R
}

// Wrap2 wraps a computation taking two arguments.
func Wrap2[T Cacheable, A1, A2, R any](c *Class, name string, fn func(T, A1, A2) R, opts ...Option) *Func2[T, A1, A2, R] {
	return &Func2[T, A1, A2, R]{m: c.register(name, reflect.TypeFor[T](), applyOptions(opts)), fn: fn}
}

// Call invokes the computation through the cache.
func (f *Func2[T, A1, A2, R]) Call(o T, a1 A1, a2 A2) R {
	return cast[R](f.m.call(o, []any{a1, a2}, func() any { return f.fn(o, a1, a2) }))
}

// Unwrapped invokes the undecorated computation, bypassing the cache.
func (f *Func2[T, A1, A2, R]) Unwrapped(o T, a1 A1, a2 A2) R { return f.fn(o, a1, a2) }

// CacheInfo reports the dispatch-tier statistics shared across all
// instances. ok is false when caching is disabled.
func (f *Func2[T, A1, A2, R]) CacheInfo() (CacheInfo, bool) { return f.m.info() }

// LocalInfo reports one object's local cache statistics.
func (f *Func2[T, A1, A2, R]) LocalInfo(o T) (CacheInfo, bool) { return f.m.localInfo(o) }

// Clear empties this method's caches for all instances.
func (f *Func2[T, A1, A2, R]) Clear() { f.m.clearAll() }

// Func3 is the cache wrapper for a three-argument method.
type Func3[T Cacheable, A1, A2, A3, R any] struct {
	m  *method
	fn func(T, A1, A2, A3) R
}

// Wrap3 wraps a computation taking three arguments.
func Wrap3[T Cacheable, A1, A2, A3, R any](c *Class, name string, fn func(T, A1, A2, A3) R, opts ...Option) *Func3[T, A1, A2, A3, R] {
	return &Func3[T, A1, A2, A3, R]{m: c.register(name, reflect.TypeFor[T](), applyOptions(opts)), fn: fn}
}

// Call invokes the computation through the cache.
func (f *Func3[T, A1, A2, A3, R]) Call(o T, a1 A1, a2 A2, a3 A3) R {
	return cast[R](f.m.call(o, []any{a1, a2, a3}, func() any { return f.fn(o, a1, a2, a3) }))
}

// Unwrapped invokes the undecorated computation, bypassing the cache.
func (f *Func3[T, A1, A2, A3, R]) Unwrapped(o T, a1 A1, a2 A2, a3 A3) R {
	return f.fn(o, a1, a2, a3)
}

// CacheInfo reports the dispatch-tier statistics shared across all
// instances. ok is false when caching is disabled.
func (f *Func3[T, A1, A2, A3, R]) CacheInfo() (CacheInfo, bool) { return f.m.info() }

// LocalInfo reports one object's local cache statistics.
func (f *Func3[T, A1, A2, A3, R]) LocalInfo(o T) (CacheInfo, bool) { return f.m.localInfo(o) }

// Clear empties this method's caches for all instances.
func (f *Func3[T, A1, A2, A3, R]) Clear() { f.m.clearAll() }

// FuncN is the cache wrapper for a variadic method. Argument order is
// significant in the call key.
type FuncN[T Cacheable, R any] struct {
	m  *method
	fn func(T, ...any) R
}

// WrapN wraps a variadic computation.
func WrapN[T Cacheable, R any](c *Class, name string, fn func(T, ...any) R, opts ...Option) *FuncN[T, R] {
	return &FuncN[T, R]{m: c.register(name, reflect.TypeFor[T](), applyOptions(opts)), fn: fn}
}

// Call invokes the computation through the cache.
func (f *FuncN[T, R]) Call(o T, args ...any) R {
	return cast[R](f.m.call(o, args, func() any { return f.fn(o, args...) }))
}

// Unwrapped invokes the undecorated computation, bypassing the cache.
func (f *FuncN[T, R]) Unwrapped(o T, args ...any) R { return f.fn(o, args...) }

// CacheInfo reports the dispatch-tier statistics shared across all
// instances. ok is false when caching is disabled.
func (f *FuncN[T, R]) CacheInfo() (CacheInfo, bool) { return f.m.info() }

// LocalInfo reports one object's local cache statistics.
func (f *FuncN[T, R]) LocalInfo(o T) (CacheInfo, bool) { return f.m.localInfo(o) }

// Clear empties this method's caches for all instances.
func (f *FuncN[T, R]) Clear() { f.m.clearAll() }
