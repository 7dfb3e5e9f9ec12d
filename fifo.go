package evictcache

import "time"

// Compile-time check that FIFO implements Cache.
var _ Cache = (*FIFO)(nil)

// FIFO is a cache that evicts entries in insertion order. Reads never change
// the order; writing an existing key moves it to the newest position.
// A FIFO is not safe for concurrent use.
type FIFO struct {
	s *store
}

// NewFIFO creates a FIFO cache holding at most capacity entries.
// It returns an error wrapping ErrInvalidCapacity if capacity is below one.
func NewFIFO(capacity int, opts ...Option) (*FIFO, error) {
	s, err := newStore(PolicyFIFO, capacity, opts)
	if err != nil {
		return nil, err
	}
	return &FIFO{s: s}, nil
}

// Get returns the live value stored under key.
func (c *FIFO) Get(key string) (any, bool) {
	return c.s.get(key, false)
}

// Put stores value under key without a deadline.
func (c *FIFO) Put(key string, value any) {
	c.s.put(key, value, 0)
}

// PutWithTTL stores value under key, expiring after ttl.
func (c *FIFO) PutWithTTL(key string, value any, ttl time.Duration) {
	c.s.put(key, value, ttl)
}

// Remove deletes key and reports whether it was present.
func (c *FIFO) Remove(key string) bool {
	return c.s.remove(key)
}

// Dump returns the stored entries, oldest insertion first.
func (c *FIFO) Dump() []Entry {
	return c.s.dump()
}

// Len returns the number of stored entries.
func (c *FIFO) Len() int {
	return c.s.size()
}

// Cap returns the capacity.
func (c *FIFO) Cap() int {
	return c.s.capacity
}
