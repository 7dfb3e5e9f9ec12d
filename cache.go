// Package evictcache provides bounded in-process key-value caches with
// optional per-entry time-to-live.
//
// Two eviction disciplines implement the same Cache contract: FIFO evicts in
// insertion order, LRU in order of last access. Expired entries are never
// swept in the background. They are dropped lazily when a Get touches them,
// or in bulk when a put finds the cache full.
//
// Example usage:
//
//	c, err := evictcache.NewLRU(1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.PutWithTTL("session:42", session, 5*time.Minute)
//
//	if v, ok := c.Get("session:42"); ok {
//	    fmt.Println(v)
//	}
//
// FIFO and LRU values are not safe for concurrent use; wrap them with
// Synchronized or use a Sharded cache when several goroutines share one.
package evictcache

import (
	"errors"
	"time"
)

// Sentinel errors for construction misuse.
var (
	// ErrInvalidCapacity indicates a capacity below one.
	ErrInvalidCapacity = errors.New("evictcache: capacity must be positive")

	// ErrUnknownPolicy indicates an unrecognised eviction policy name.
	ErrUnknownPolicy = errors.New("evictcache: unknown eviction policy")

	// ErrInvalidShards indicates a shard count below one or above capacity.
	ErrInvalidShards = errors.New("evictcache: invalid shard count")
)

// Cache is the contract shared by every eviction discipline.
type Cache interface {
	// Get returns the value stored under key. An entry whose deadline has
	// passed is removed and reported as absent.
	Get(key string) (any, bool)

	// Put stores value under key without a deadline.
	Put(key string, value any)

	// PutWithTTL stores value under key, expiring after ttl.
	// A ttl of zero or less means the entry never expires.
	// Writing an existing key replaces it as a fresh insertion.
	PutWithTTL(key string, value any, ttl time.Duration)

	// Remove deletes key and reports whether it was present.
	Remove(key string) bool

	// Dump returns every stored entry in eviction order, next victim first.
	// It does not check deadlines or change any ordering.
	Dump() []Entry

	// Len returns the number of stored entries, including expired entries
	// that have not been reclaimed yet.
	Len() int
}

// Entry is one key-value pair as seen by Dump.
type Entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	// ExpiresAt is the absolute deadline; the zero time means never.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Expires reports whether the entry has a deadline.
func (e Entry) Expires() bool {
	return !e.ExpiresAt.IsZero()
}

// EvictReason tells why the cache removed an entry on its own.
type EvictReason int

const (
	// EvictExpired means the entry's deadline had passed.
	EvictExpired EvictReason = iota + 1
	// EvictCapacity means a live entry made room for a new one.
	EvictCapacity
)

func (r EvictReason) String() string {
	switch r {
	case EvictExpired:
		return "expired"
	case EvictCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}
