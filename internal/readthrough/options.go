package readthrough

import (
	"time"

	"go.uber.org/zap"

	"github.com/discochess/evictcache/internal/stats"
)

// Option configures a read-through cache.
type Option interface {
	apply(*options)
}

type options struct {
	ttl    time.Duration
	stats  stats.Collector
	logger *zap.Logger
	name   string
}

func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
		name:   "readthrough",
	}
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

// WithTTL sets the time-to-live of loaded values.
// If not set, loaded values never expire.
func WithTTL(ttl time.Duration) Option {
	return optionFunc(func(o *options) {
		o.ttl = ttl
	})
}

// WithStats sets the collector for load metrics.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.stats = c
		}
	})
}

// WithLogger sets the logger used to report failed loads.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l
		}
	})
}

// WithName names the cache in metrics.
func WithName(name string) Option {
	return optionFunc(func(o *options) {
		if name != "" {
			o.name = name
		}
	})
}
