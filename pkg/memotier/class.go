package memotier

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vnykmshr/memotier-go/internal/handle"
	"github.com/vnykmshr/memotier-go/pkg/metrics"
)

// Class is the cache manager for one participating type (or a family
// of related types): it holds the configuration every wrapped method
// reads at wrap time, the registry of those methods, and the optional
// metrics reporter. Construct one per type with an explicit Config
// instead of mutating ambient state.
type Class struct {
	name   string
	config *Config

	mu      sync.RWMutex
	methods []*method
	byName  map[string]*method

	exporter    metrics.Exporter
	labels      metrics.Labels
	metricsStop chan struct{}
	metricsWg   sync.WaitGroup
}

// NewClass creates a cache manager named name with the given
// configuration. A nil config means defaults. Configuration is fixed
// from here on.
func NewClass(name string, config *Config) (*Class, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.Global.MaxSize <= 0 || config.Local.MaxSize <= 0 {
		return nil, fmt.Errorf("memotier: cache sizes must be positive, got global=%d local=%d",
			config.Global.MaxSize, config.Local.MaxSize)
	}

	c := &Class{
		name:   name,
		config: config,
		byName: make(map[string]*method),
	}

	c.exporter = metrics.NewNoOpExporter()
	if mc := config.Metrics; mc != nil && mc.Enabled && mc.Exporter != nil {
		c.exporter = mc.Exporter
		c.labels = metrics.Labels{"class": name}
		for k, v := range mc.Labels {
			c.labels[k] = v
		}
		if mc.ReportingInterval > 0 {
			c.metricsStop = make(chan struct{})
			c.metricsWg.Add(1)
			go c.metricsReporter(mc.ReportingInterval)
		}
	}

	return c, nil
}

// MustClass is NewClass for package-level initialization; it panics
// on a bad configuration.
func MustClass(name string, config *Config) *Class {
	c, err := NewClass(name, config)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// MethodNames returns the registered method names in wrap order.
func (c *Class) MethodNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.methods))
	for i, m := range c.methods {
		names[i] = m.name
	}
	return names
}

// Close stops the metrics reporter, flushes a final stats export and
// closes the exporter. It does not touch cache contents.
func (c *Class) Close() error {
	if c.metricsStop != nil {
		close(c.metricsStop)
		c.metricsWg.Wait()
		c.metricsStop = nil
	}
	return c.exporter.Close()
}

// FlushMetrics exports every registered method's statistics once.
func (c *Class) FlushMetrics() {
	c.mu.RLock()
	methods := c.methods
	c.mu.RUnlock()
	for _, m := range methods {
		if m.disabled {
			continue
		}
		labels := metrics.Labels{"method": m.name}
		for k, v := range c.labels {
			labels[k] = v
		}
		_ = c.exporter.ExportStats(m.stats, labels)
	}
}

// register wires a new wrapped method into the class registry and the
// per-type index used by recursive clearing. Declaration mistakes are
// programmer errors and panic.
func (c *Class) register(name string, receiver reflect.Type, opts *wrapOptions) *method {
	if name == "" {
		panic("memotier: wrapped method needs a name")
	}

	m := &method{
		class:     c,
		id:        newMethodID(),
		name:      name,
		progress:  opts.progress,
		attrs:     resolveAttrs(receiver, opts.attrs),
		globalMax: c.config.Global.MaxSize,
		stats:     &Stats{},
		local:     c.config.Local,
	}

	m.keyFn = opts.keyFn
	if m.keyFn == nil {
		m.keyFn = c.config.KeyGen
	}
	if m.keyFn == nil {
		if c.config.Local.Typed {
			m.keyFn = DefaultKeyFunc
		} else {
			m.keyFn = UntypedKeyFunc
		}
	}

	if !c.config.Enabled {
		m.disabled = true
	} else {
		global, err := lru.NewWithEvict[uint64, *handle.Handle](c.config.Global.MaxSize, m.globalEvict)
		if err != nil {
			panic(fmt.Sprintf("memotier: %s: %v", name, err))
		}
		m.global = global
	}

	c.mu.Lock()
	if _, dup := c.byName[name]; dup {
		c.mu.Unlock()
		panic(fmt.Sprintf("memotier: method %q wrapped twice in class %q", name, c.name))
	}
	c.methods = append(c.methods, m)
	c.byName[name] = m
	c.mu.Unlock()

	registerForType(receiver, m)
	return m
}

// resolveAttrs validates the declared attribute names against the
// receiver type and resolves them to field indices.
func resolveAttrs(receiver reflect.Type, names []string) []attrField {
	if len(names) == 0 {
		return nil
	}
	if receiver.Kind() != reflect.Pointer || receiver.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("memotier: attrs require a pointer-to-struct receiver, got %s", receiver))
	}
	st := receiver.Elem()
	fields := make([]attrField, len(names))
	for i, n := range names {
		if n == "" {
			panic("memotier: empty attribute name")
		}
		f, ok := st.FieldByName(n)
		if !ok {
			panic(fmt.Sprintf("memotier: %s has no field %q", receiver, n))
		}
		if !f.IsExported() {
			panic(fmt.Sprintf("memotier: attribute %q of %s must be exported", n, receiver))
		}
		fields[i] = attrField{name: n, index: f.Index}
	}
	return fields
}

func (c *Class) metricsReporter(interval time.Duration) {
	defer c.metricsWg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.FlushMetrics()
		case <-c.metricsStop:
			// final export before shutdown
			c.FlushMetrics()
			return
		}
	}
}

func (c *Class) hooks() *Hooks {
	return c.config.Hooks
}

func (c *Class) logger() Logger {
	if c.config.Logger == nil {
		return noopLogger{}
	}
	return c.config.Logger
}

func (c *Class) progressWriter() io.Writer {
	if c.config.ProgressWriter == nil {
		return os.Stdout
	}
	return c.config.ProgressWriter
}
