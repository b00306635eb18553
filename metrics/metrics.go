// Package metrics tracks per-generation run statistics: a Metric is
// initialized once at run start and updated once per generation, and
// a Collector owns an ordered set of named metrics that the engine
// drives uniformly without knowing their concrete types.
package metrics

import (
	"sync"

	"github.com/aram/evokernel/operator"
)

// Metric tracks one run attribute across generations. Init runs once
// before the first generation; Update runs once per generation after
// the population has been replaced. Get returns the metric's current
// data in whatever shape is natural for it (a history slice, a single
// running value, etc.).
type Metric interface {
	Init(ga operator.GaInfo)
	Update(ga operator.GaInfo)
	Get() any
}

// Collector is an ordered, name-addressed collection of metrics that the engine initializes
// and updates together.
type Collector struct {
	mu      sync.Mutex
	order   []string
	byName  map[string]Metric
}

// NewCollector returns a Collector with the given named metrics
// registered in order. Names must be unique; a duplicate name panics,
// since it always indicates a configuration mistake by the caller.
func NewCollector(named ...NamedMetric) *Collector {
	c := &Collector{byName: make(map[string]Metric, len(named))}
	for _, nm := range named {
		c.Register(nm.Name, nm.Metric)
	}
	return c
}

// NamedMetric pairs a metric with the name it is registered under.
type NamedMetric struct {
	Name   string
	Metric Metric
}

// Register adds a metric under name, panicking if name is already in
// use.
func (c *Collector) Register(name string, m Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[name]; exists {
		panic("metrics: duplicate metric name " + name)
	}
	if c.byName == nil {
		c.byName = make(map[string]Metric)
	}
	c.byName[name] = m
	c.order = append(c.order, name)
}

// Init runs Init on every registered metric, in registration order.
func (c *Collector) Init(ga operator.GaInfo) {
	c.mu.Lock()
	order := append([]string(nil), c.order...)
	c.mu.Unlock()
	for _, name := range order {
		c.byName[name].Init(ga)
	}
}

// Update runs Update on every registered metric, in registration
// order.
func (c *Collector) Update(ga operator.GaInfo) {
	c.mu.Lock()
	order := append([]string(nil), c.order...)
	c.mu.Unlock()
	for _, name := range order {
		c.byName[name].Update(ga)
	}
}

// Names returns the registered metric names in registration order.
func (c *Collector) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

// Raw returns the named metric's current Get() value and whether it
// was found.
func (c *Collector) Raw(name string) (any, bool) {
	c.mu.Lock()
	m, ok := c.byName[name]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return m.Get(), true
}

// Get fetches the named metric's value, type-asserted to T. The
// Collector's methods can't carry a type parameter themselves (Go
// forbids generic methods), so this is a package-level function
// instead of a Collector method.
func Get[T any](c *Collector, name string) (T, bool) {
	var zero T
	raw, ok := c.Raw(name)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
