package evictcache

import (
	"sync"
	"time"
)

// synchronized serializes every call on the wrapped cache. Get takes the
// exclusive lock as well, since a read may promote or expire an entry.
type synchronized struct {
	mu sync.Mutex
	c  Cache
}

// Compile-time check that synchronized implements Cache.
var _ Cache = (*synchronized)(nil)

// Synchronized returns a Cache that is safe for concurrent use. Each call
// holds one mutex, so the primary store and the expiration index of c are
// always updated together. Wrapping an already synchronized cache returns it
// unchanged.
func Synchronized(c Cache) Cache {
	if s, ok := c.(*synchronized); ok {
		return s
	}
	return &synchronized{c: c}
}

func (s *synchronized) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(key)
}

func (s *synchronized) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Put(key, value)
}

func (s *synchronized) PutWithTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.PutWithTTL(key, value, ttl)
}

func (s *synchronized) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Remove(key)
}

func (s *synchronized) Dump() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Dump()
}

func (s *synchronized) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Len()
}
