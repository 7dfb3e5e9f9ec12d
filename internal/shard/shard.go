// Package shard defines the strategy interface for spreading cache keys
// across independently locked shards.
package shard

// Strategy maps keys to shard IDs.
type Strategy interface {
	// Name returns a human-readable name for this strategy.
	Name() string

	// ShardID computes the shard ID for key.
	// The returned value is in the range [0, totalShards).
	// The same key must always map to the same shard.
	ShardID(key string, totalShards int) int
}
