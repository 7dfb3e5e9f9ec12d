// Package simulation replays access traces against cache policies.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/trace"
	"github.com/discochess/evictcache/internal/readthrough"
	"github.com/discochess/evictcache/internal/shard"
	"github.com/discochess/evictcache/internal/stats"
)

// ErrInvalidConfig is returned for unusable simulation settings.
var ErrInvalidConfig = errors.New("simulation: invalid config")

// Config controls a simulation run.
type Config struct {
	// Capacity is the cache capacity for every policy.
	Capacity int
	// Shards splits each cache into a lock-striped cache when above one.
	Shards int
	// ShardStrategy routes keys to shards; nil keeps the cache default.
	ShardStrategy shard.Strategy
	// LoadTTL is the TTL of values loaded after a get miss; zero means none.
	LoadTTL time.Duration
	// Window is the number of gets per hit-rate sample.
	Window int
	// Start is the initial reading of the simulated clock.
	Start time.Time

	Stats  stats.Collector
	Logger *zap.Logger
}

// DefaultConfig returns a 1,000-entry cache sampled every 1,000 gets.
func DefaultConfig() Config {
	return Config{
		Capacity: 1000,
		LoadTTL:  5 * time.Minute,
		Window:   1000,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c Config) validate() error {
	switch {
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	case c.Window < 1:
		return fmt.Errorf("%w: window %d", ErrInvalidConfig, c.Window)
	case c.Shards < 0:
		return fmt.Errorf("%w: shards %d", ErrInvalidConfig, c.Shards)
	}
	return nil
}

// Simulator replays one trace against several policies.
type Simulator struct {
	cfg      Config
	policies []evictcache.Policy
}

// NewSimulator creates a Simulator. With no policies, every supported
// policy is simulated.
func NewSimulator(cfg Config, policies ...evictcache.Policy) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(policies) == 0 {
		policies = evictcache.Policies()
	}
	return &Simulator{cfg: cfg, policies: policies}, nil
}

// Run replays ops against a fresh cache per policy. Policies run in
// parallel, each on its own cache and clock.
func (s *Simulator) Run(ctx context.Context, ops []trace.Op) (map[evictcache.Policy]*Result, error) {
	results := make([]*Result, len(s.policies))

	g, ctx := errgroup.WithContext(ctx)
	for i, policy := range s.policies {
		g.Go(func() error {
			res, err := s.runPolicy(ctx, policy, ops)
			if err != nil {
				return fmt.Errorf("simulating %s: %w", policy, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[evictcache.Policy]*Result, len(results))
	for _, res := range results {
		out[res.Policy] = res
	}
	return out, nil
}

func (s *Simulator) runPolicy(ctx context.Context, policy evictcache.Policy, ops []trace.Op) (*Result, error) {
	res := &Result{Policy: policy}
	clock := evictcache.NewManualClock(s.cfg.Start)

	opts := []evictcache.Option{
		evictcache.WithClock(clock),
		evictcache.WithStats(s.cfg.Stats),
		evictcache.WithLogger(s.cfg.Logger),
		evictcache.WithName(string(policy)),
		evictcache.WithOnEvict(func(_ string, _ any, reason evictcache.EvictReason) {
			switch reason {
			case evictcache.EvictExpired:
				res.Expirations++
			case evictcache.EvictCapacity:
				res.Evictions++
			}
		}),
	}

	var (
		cache evictcache.Cache
		err   error
	)
	if s.cfg.Shards > 1 {
		if s.cfg.ShardStrategy != nil {
			opts = append(opts, evictcache.WithShardStrategy(s.cfg.ShardStrategy))
		}
		cache, err = evictcache.NewSharded(policy, s.cfg.Capacity, s.cfg.Shards, opts...)
	} else {
		cache, err = evictcache.New(policy, s.cfg.Capacity, opts...)
	}
	if err != nil {
		return nil, err
	}

	// Every key exists in the simulated backing store, so a get only ever
	// misses the cache. A load marks the get as a miss.
	var loads int
	source := readthrough.SourceFunc(func(_ context.Context, key string) (any, error) {
		loads++
		return key, nil
	})
	rt := readthrough.New(cache, source,
		readthrough.WithTTL(s.cfg.LoadTTL),
		readthrough.WithStats(s.cfg.Stats),
		readthrough.WithLogger(s.cfg.Logger),
		readthrough.WithName(string(policy)),
	)

	start := time.Now()
	windowHits, windowGets := 0, 0
	for i, op := range ops {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		switch op.Kind {
		case trace.Get:
			before := loads
			if _, err := rt.Get(ctx, op.Key); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
			res.Gets++
			windowGets++
			if loads == before {
				res.Hits++
				windowHits++
			} else {
				res.Misses++
			}
			if windowGets == s.cfg.Window {
				res.WindowHitRates = append(res.WindowHitRates, float64(windowHits)/float64(windowGets)*100)
				windowHits, windowGets = 0, 0
			}
		case trace.Put:
			cache.PutWithTTL(op.Key, op.Key, op.Duration)
			res.Puts++
		case trace.Del:
			if cache.Remove(op.Key) {
				res.Removes++
			}
		case trace.Advance:
			clock.Advance(op.Duration)
			res.Advances++
		default:
			return nil, fmt.Errorf("op %d: unknown kind %s", i, op.Kind)
		}
	}

	res.FinalSize = cache.Len()
	res.SimulatedTime = clock.Now().Sub(s.cfg.Start)
	res.Elapsed = time.Since(start)

	s.cfg.Logger.Debug("simulation finished",
		zap.String("policy", string(policy)),
		zap.Int("ops", len(ops)),
		zap.Float64("hit_rate", res.HitRate()),
		zap.Duration("elapsed", res.Elapsed),
	)

	return res, nil
}

// Result contains the outcome of replaying a trace against one policy.
type Result struct {
	Policy evictcache.Policy

	Gets     int
	Hits     int
	Misses   int
	Puts     int
	Removes  int // Deletes that found their key.
	Advances int

	Evictions   int // Capacity evictions.
	Expirations int // Entries reclaimed because their deadline passed.

	WindowHitRates []float64 // Hit rate percentage per window of gets.
	FinalSize      int

	SimulatedTime time.Duration // Total clock advance.
	Elapsed       time.Duration // Wall time spent replaying.
}

// HitRate returns the overall get hit rate as a percentage.
func (r *Result) HitRate() float64 {
	if r.Gets == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Gets) * 100
}
