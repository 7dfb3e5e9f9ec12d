package evictcache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/discochess/evictcache/internal/deadline"
	"github.com/discochess/evictcache/internal/stats"
)

// entry is the value held in the primary store.
type entry struct {
	value any
	// due is the expiration index record; zero when the entry never expires.
	due deadline.Item
}

func (e *entry) expired(now time.Time) bool {
	return !e.due.IsZero() && !e.due.At.After(now)
}

// store pairs the ordered primary store with the expiration index. Both
// structures are always mutated together.
//
// The primary store's list order is the eviction order, oldest first. FIFO
// and LRU differ only in whether a read moves a key to the newest end.
type store struct {
	capacity  int
	entries   *simplelru.LRU[string, *entry]
	deadlines *deadline.Index

	clock   Clock
	stats   stats.Collector
	logger  *zap.Logger
	name    string
	onEvict EvictFunc
}

func newStore(policy Policy, capacity int, opts []Option) (*store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.name == "" {
		cfg.name = string(policy)
	}

	// put reclaims space before every insert, so the list never evicts on
	// its own and needs no callback.
	entries, err := simplelru.NewLRU[string, *entry](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("creating primary store: %w", err)
	}

	s := &store{
		capacity:  capacity,
		entries:   entries,
		deadlines: deadline.New(),
		clock:     cfg.clock,
		stats:     cfg.stats,
		logger:    cfg.logger.With(zap.String("cache", cfg.name)),
		name:      cfg.name,
		onEvict:   cfg.onEvict,
	}

	s.logger.Debug("cache initialized",
		zap.String("policy", string(policy)),
		zap.Int("capacity", capacity),
	)

	return s, nil
}

// get looks key up. When touch is set a hit moves the key to the newest end.
func (s *store) get(key string, touch bool) (any, bool) {
	e, ok := s.entries.Peek(key)
	if !ok {
		s.stats.IncCounter(stats.MetricMisses, s.name, 1)
		return nil, false
	}

	if e.expired(s.clock.Now()) {
		s.evict(key, e, EvictExpired)
		s.stats.IncCounter(stats.MetricMisses, s.name, 1)
		s.stats.SetGauge(stats.MetricEntries, s.name, int64(s.entries.Len()))
		return nil, false
	}

	if touch {
		s.entries.Get(key)
	}
	s.stats.IncCounter(stats.MetricHits, s.name, 1)
	return e.value, true
}

// put reclaims space if the store is full, then inserts key as the newest
// entry.
func (s *store) put(key string, value any, ttl time.Duration) {
	now := s.clock.Now()
	reclaimed := 0

	if s.full() {
		reclaimed += s.sweep(now)
	}
	for s.full() {
		oldest, e, ok := s.entries.GetOldest()
		if !ok {
			break
		}
		s.evict(oldest, e, EvictCapacity)
		reclaimed++
	}

	// Re-insertion is a fresh insertion, never an in-place update.
	if old, ok := s.entries.Peek(key); ok {
		s.drop(key, old)
	}

	e := &entry{value: value}
	if ttl > 0 {
		e.due = s.deadlines.Add(key, now.Add(ttl))
	}
	s.entries.Add(key, e)

	s.stats.ObserveHistogram(stats.MetricReclaimed, s.name, float64(reclaimed))
	s.stats.SetGauge(stats.MetricEntries, s.name, int64(s.entries.Len()))
}

// remove deletes key and reports whether it was present.
func (s *store) remove(key string) bool {
	e, ok := s.entries.Peek(key)
	if !ok {
		return false
	}
	s.drop(key, e)
	s.stats.SetGauge(stats.MetricEntries, s.name, int64(s.entries.Len()))
	return true
}

// dump snapshots the primary store, oldest first.
func (s *store) dump() []Entry {
	keys := s.entries.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e, ok := s.entries.Peek(k)
		if !ok {
			continue
		}
		out = append(out, Entry{Key: k, Value: e.value, ExpiresAt: e.due.At})
	}
	return out
}

func (s *store) size() int {
	return s.entries.Len()
}

func (s *store) full() bool {
	return s.entries.Len() >= s.capacity
}

// sweep removes every entry whose deadline is at or before now. The index is
// ordered, so the scan ends at the first live deadline.
func (s *store) sweep(now time.Time) int {
	expired := s.deadlines.PopExpired(now)
	for _, it := range expired {
		e, ok := s.entries.Peek(it.Key)
		if !ok {
			continue
		}
		s.entries.Remove(it.Key)
		s.notify(it.Key, e, EvictExpired)
	}
	return len(expired)
}

// evict removes an entry the cache chose to reclaim.
func (s *store) evict(key string, e *entry, reason EvictReason) {
	s.drop(key, e)
	s.notify(key, e, reason)
}

func (s *store) notify(key string, e *entry, reason EvictReason) {
	switch reason {
	case EvictExpired:
		s.stats.IncCounter(stats.MetricExpirations, s.name, 1)
	case EvictCapacity:
		s.stats.IncCounter(stats.MetricEvictions, s.name, 1)
	}
	s.logger.Debug("entry evicted",
		zap.String("key", key),
		zap.Stringer("reason", reason),
	)
	if s.onEvict != nil {
		s.onEvict(key, e.value, reason)
	}
}

// drop removes key from both structures.
func (s *store) drop(key string, e *entry) {
	s.deadlines.Remove(e.due)
	s.entries.Remove(key)
}
