package evictcache

import (
	"fmt"
	"time"

	"github.com/discochess/evictcache/internal/shard"
	"github.com/discochess/evictcache/internal/shard/fnvshard"
)

// Compile-time check that Sharded implements Cache.
var _ Cache = (*Sharded)(nil)

// Sharded is a lock-striped cache: keys are spread over independent
// synchronized caches, each owning a slice of the total capacity. Eviction
// order holds per shard, not across the whole cache.
// A Sharded cache is safe for concurrent use.
type Sharded struct {
	shards   []Cache
	capacity int
	strategy shard.Strategy
}

// NewSharded creates a cache of the given policy split into shards stripes.
// Shard capacities sum to capacity; shards must be between 1 and capacity.
// Options apply to every shard; shard i is named "<name>-<i>".
func NewSharded(policy Policy, capacity, shards int, opts ...Option) (*Sharded, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if shards < 1 || shards > capacity {
		return nil, fmt.Errorf("%w: %d shards for capacity %d", ErrInvalidShards, shards, capacity)
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	name := cfg.name
	if name == "" {
		name = string(policy)
	}
	strategy := cfg.sharder
	if strategy == nil {
		strategy = fnvshard.New()
	}

	s := &Sharded{
		shards:   make([]Cache, shards),
		capacity: capacity,
		strategy: strategy,
	}

	base, rem := capacity/shards, capacity%shards
	for i := range s.shards {
		size := base
		if i < rem {
			size++
		}
		shardOpts := append(opts[:len(opts):len(opts)], WithName(fmt.Sprintf("%s-%d", name, i)))
		c, err := New(policy, size, shardOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating shard %d: %w", i, err)
		}
		s.shards[i] = Synchronized(c)
	}

	return s, nil
}

func (s *Sharded) shardFor(key string) Cache {
	return s.shards[s.strategy.ShardID(key, len(s.shards))]
}

// Get returns the live value stored under key.
func (s *Sharded) Get(key string) (any, bool) {
	return s.shardFor(key).Get(key)
}

// Put stores value under key without a deadline.
func (s *Sharded) Put(key string, value any) {
	s.shardFor(key).Put(key, value)
}

// PutWithTTL stores value under key, expiring after ttl.
func (s *Sharded) PutWithTTL(key string, value any, ttl time.Duration) {
	s.shardFor(key).PutWithTTL(key, value, ttl)
}

// Remove deletes key and reports whether it was present.
func (s *Sharded) Remove(key string) bool {
	return s.shardFor(key).Remove(key)
}

// Dump concatenates the shard snapshots in shard order. Each shard is
// locked separately, so the result is not one atomic snapshot.
func (s *Sharded) Dump() []Entry {
	var out []Entry
	for _, c := range s.shards {
		out = append(out, c.Dump()...)
	}
	return out
}

// Len returns the number of stored entries across all shards.
func (s *Sharded) Len() int {
	n := 0
	for _, c := range s.shards {
		n += c.Len()
	}
	return n
}

// Cap returns the total capacity.
func (s *Sharded) Cap() int {
	return s.capacity
}

// Shards returns the number of shards.
func (s *Sharded) Shards() int {
	return len(s.shards)
}
