// Package stats provides a unified interface for collecting cache metrics.
package stats

// Metric names used throughout the module.
const (
	// Lookup metrics.
	MetricHits   = "evictcache_hits_total"
	MetricMisses = "evictcache_misses_total"

	// Reclamation metrics.
	MetricExpirations = "evictcache_expirations_total"
	MetricEvictions   = "evictcache_evictions_total"
	MetricReclaimed   = "evictcache_put_reclaimed"

	// Occupancy.
	MetricEntries = "evictcache_entries"

	// Read-through metrics.
	MetricLoads      = "evictcache_loads_total"
	MetricLoadErrors = "evictcache_load_errors_total"
)

// LabelCache is the label carrying the cache name on every metric.
const LabelCache = "cache"

// Collector defines the interface for collecting metrics.
// The cache argument names the cache instance the sample belongs to.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name, cache string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name, cache string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name, cache string, value float64)
}
