package evictcache

import (
	"go.uber.org/zap"

	"github.com/discochess/evictcache/internal/shard"
	"github.com/discochess/evictcache/internal/stats"
)

// Option configures a cache.
type Option interface {
	apply(*options)
}

// EvictFunc is called after the cache removes an entry on its own.
// It must not call back into the cache.
type EvictFunc func(key string, value any, reason EvictReason)

// options holds the cache configuration.
type options struct {
	clock   Clock
	stats   stats.Collector
	logger  *zap.Logger
	name    string
	onEvict EvictFunc
	sharder shard.Strategy
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		clock:  SystemClock,
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithClock sets the time source for deadlines.
// If not set, SystemClock is used.
func WithClock(c Clock) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.clock = c
		}
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.stats = c
		}
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithName names the cache in logs and metrics.
// If not set, the policy name is used.
func WithName(name string) Option {
	return optionFunc(func(o *options) {
		o.name = name
	})
}

// WithOnEvict registers a callback for expirations and capacity evictions.
// Explicit removals and overwrites do not trigger it.
func WithOnEvict(fn EvictFunc) Option {
	return optionFunc(func(o *options) {
		o.onEvict = fn
	})
}

// WithShardStrategy sets how NewSharded maps keys to shards.
// If not set, FNV-1a hashing is used. Other constructors ignore it.
func WithShardStrategy(s shard.Strategy) Option {
	return optionFunc(func(o *options) {
		o.sharder = s
	})
}
