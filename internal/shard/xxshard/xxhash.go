// Package xxshard implements xxHash-based key sharding.
package xxshard

import (
	"github.com/cespare/xxhash/v2"

	"github.com/discochess/evictcache/internal/shard"
)

// Strategy implements xxHash64-based sharding.
type Strategy struct{}

// Ensure Strategy implements shard.Strategy.
var _ shard.Strategy = (*Strategy)(nil)

// New creates a new xxHash-based sharding strategy.
func New() *Strategy {
	return &Strategy{}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return "xxhash64"
}

// ShardID computes a shard ID from the xxHash64 digest of key.
func (s *Strategy) ShardID(key string, totalShards int) int {
	if totalShards <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(totalShards))
}
