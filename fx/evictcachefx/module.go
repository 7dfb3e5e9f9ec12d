// Package evictcachefx provides an fx module for a configured cache.
package evictcachefx

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/internal/stats"
	"github.com/discochess/evictcache/internal/stats/logger"
	statsprom "github.com/discochess/evictcache/internal/stats/prometheus"
)

// Module provides an evictcache.Cache built from Config.
// Requires a Config and a *zap.Logger. When a prometheus.Registerer is in
// the graph, metrics go to it; otherwise they are logged at debug level.
var Module = fx.Module("evictcache",
	fx.Provide(
		newStatsCollector,
		newCache,
	),
)

// Config describes the cache to build.
type Config struct {
	Policy   evictcache.Policy
	Capacity int
	// Shards above one builds a lock-striped cache. Otherwise the cache is
	// a single synchronized FIFO or LRU.
	Shards int
	// Name labels the cache in logs and metrics. Defaults to the policy.
	Name string
}

// StatsParams holds dependencies for the stats collector.
type StatsParams struct {
	fx.In

	Logger     *zap.Logger
	Registerer prometheus.Registerer `optional:"true"`
}

func newStatsCollector(p StatsParams) stats.Collector {
	if p.Registerer != nil {
		return statsprom.New(p.Registerer)
	}
	return logger.New(p.Logger.Named("evictcache.stats"))
}

// Params holds dependencies for creating the cache.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Clock     evictcache.Clock `optional:"true"`
	Lifecycle fx.Lifecycle
}

func newCache(p Params) (evictcache.Cache, error) {
	log := p.Logger.Named("evictcache")
	opts := []evictcache.Option{
		evictcache.WithLogger(log),
		evictcache.WithStats(p.Collector),
		evictcache.WithClock(p.Clock),
		evictcache.WithName(p.Config.Name),
	}

	var cache evictcache.Cache
	if p.Config.Shards > 1 {
		c, err := evictcache.NewSharded(p.Config.Policy, p.Config.Capacity, p.Config.Shards, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating sharded cache: %w", err)
		}
		cache = c
	} else {
		c, err := evictcache.New(p.Config.Policy, p.Config.Capacity, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
		cache = evictcache.Synchronized(c)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("cache stopped", zap.Int("entries", cache.Len()))
			return nil
		},
	})

	return cache, nil
}
