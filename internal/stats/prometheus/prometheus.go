// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/discochess/evictcache/internal/stats"
)

// Collector implements stats.Collector using Prometheus metric vectors
// partitioned by the cache label.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name, cache string, delta int64) {
	vec := lookupOrRegister(c, c.counters, name, func() *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help(name)}, []string{stats.LabelCache})
	})
	vec.WithLabelValues(cache).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name, cache string, value int64) {
	vec := lookupOrRegister(c, c.gauges, name, func() *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help(name)}, []string{stats.LabelCache})
	})
	vec.WithLabelValues(cache).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name, cache string, value float64) {
	vec := lookupOrRegister(c, c.histograms, name, func() *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help(name),
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}, []string{stats.LabelCache})
	})
	vec.WithLabelValues(cache).Observe(value)
}

// lookupOrRegister returns the vector registered under name, creating and
// registering it on first use. A vector already present in the registry is
// reused.
func lookupOrRegister[V prometheus.Collector](c *Collector, m map[string]V, name string, create func() V) V {
	c.mu.RLock()
	vec, ok := m[name]
	c.mu.RUnlock()
	if ok {
		return vec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if vec, ok = m[name]; ok {
		return vec
	}

	vec = create()
	if err := c.registry.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(V); ok {
				vec = existing
			}
		}
		// Otherwise keep the unregistered vector; samples are still recorded.
	}
	m[name] = vec
	return vec
}

var helpText = map[string]string{
	stats.MetricHits:        "Cache lookups that returned a live entry.",
	stats.MetricMisses:      "Cache lookups that found no live entry.",
	stats.MetricExpirations: "Entries removed because their deadline passed.",
	stats.MetricEvictions:   "Live entries removed to respect the capacity bound.",
	stats.MetricReclaimed:   "Entries reclaimed by a single put.",
	stats.MetricEntries:     "Entries currently held, expired but unswept included.",
	stats.MetricLoads:       "Values loaded from the backing source on a miss.",
	stats.MetricLoadErrors:  "Failed loads from the backing source.",
}

func help(name string) string {
	if h, ok := helpText[name]; ok {
		return h
	}
	return name
}
