// Package readthrough wraps a cache with a loader for missing keys.
//
// A Cache answers from the wrapped evictcache.Cache when it can and otherwise
// loads the value from a Source, stores it, and returns it. Concurrent misses
// on one key share a single load.
package readthrough

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/internal/stats"
)

// ErrNotFound is returned by a Source when the key does not exist.
var ErrNotFound = errors.New("readthrough: key not found")

// Source loads values the cache does not hold.
type Source interface {
	// Load returns the value for key, or an error wrapping ErrNotFound.
	Load(ctx context.Context, key string) (any, error)
}

// SourceFunc is a function type that implements the Source interface.
type SourceFunc func(ctx context.Context, key string) (any, error)

// Load calls the function.
func (f SourceFunc) Load(ctx context.Context, key string) (any, error) {
	return f(ctx, key)
}

// Stats contains read-through statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Loads      int64
	LoadErrors int64
	Size       int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a read-through cache. It is safe for concurrent use when the
// wrapped cache is.
type Cache struct {
	cache  evictcache.Cache
	source Source
	group  singleflight.Group

	ttl       time.Duration
	collector stats.Collector
	logger    *zap.Logger
	name      string

	hits       atomic.Int64
	misses     atomic.Int64
	loads      atomic.Int64
	loadErrors atomic.Int64
}

// New creates a read-through cache over cache, loading misses from source.
func New(cache evictcache.Cache, source Source, opts ...Option) *Cache {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return &Cache{
		cache:     cache,
		source:    source,
		ttl:       cfg.ttl,
		collector: cfg.stats,
		logger:    cfg.logger,
		name:      cfg.name,
	}
}

// Get returns the value for key, loading and storing it on a miss.
// Waiting callers give up when ctx is done; the shared load itself is not
// canceled by any single caller.
func (c *Cache) Get(ctx context.Context, key string) (any, error) {
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("loading %q: %w", key, res.Err)
		}
		return res.Val, nil
	}
}

func (c *Cache) load(ctx context.Context, key string) (any, error) {
	c.loads.Add(1)
	c.collector.IncCounter(stats.MetricLoads, c.name, 1)

	v, err := c.source.Load(ctx, key)
	if err != nil {
		c.loadErrors.Add(1)
		c.collector.IncCounter(stats.MetricLoadErrors, c.name, 1)
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("load failed", zap.String("key", key), zap.Error(err))
		}
		return nil, err
	}

	c.cache.PutWithTTL(key, v, c.ttl)
	return v, nil
}

// Set stores value under key with the configured TTL, bypassing the source.
func (c *Cache) Set(key string, value any) {
	c.cache.PutWithTTL(key, value, c.ttl)
}

// Invalidate removes key so the next Get reloads it.
func (c *Cache) Invalidate(key string) bool {
	return c.cache.Remove(key)
}

// Stats returns current statistics.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Loads:      c.loads.Load(),
		LoadErrors: c.loadErrors.Load(),
		Size:       c.cache.Len(),
	}
}
