package evictcache

import "time"

// Compile-time check that LRU implements Cache.
var _ Cache = (*LRU)(nil)

// LRU is a cache that evicts the least recently used entry first. Both
// successful reads and writes count as use.
// An LRU is not safe for concurrent use.
type LRU struct {
	s *store
}

// NewLRU creates an LRU cache holding at most capacity entries.
// It returns an error wrapping ErrInvalidCapacity if capacity is below one.
func NewLRU(capacity int, opts ...Option) (*LRU, error) {
	s, err := newStore(PolicyLRU, capacity, opts)
	if err != nil {
		return nil, err
	}
	return &LRU{s: s}, nil
}

// Get returns the live value stored under key and marks it most recently used.
func (c *LRU) Get(key string) (any, bool) {
	return c.s.get(key, true)
}

// Put stores value under key without a deadline.
func (c *LRU) Put(key string, value any) {
	c.s.put(key, value, 0)
}

// PutWithTTL stores value under key, expiring after ttl.
func (c *LRU) PutWithTTL(key string, value any, ttl time.Duration) {
	c.s.put(key, value, ttl)
}

// Remove deletes key and reports whether it was present.
func (c *LRU) Remove(key string) bool {
	return c.s.remove(key)
}

// Dump returns the stored entries, least recently used first.
func (c *LRU) Dump() []Entry {
	return c.s.dump()
}

// Len returns the number of stored entries.
func (c *LRU) Len() int {
	return c.s.size()
}

// Cap returns the capacity.
func (c *LRU) Cap() int {
	return c.s.capacity
}
