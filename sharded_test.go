package evictcache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fixedStrategy routes every key to one shard.
type fixedStrategy int

func (f fixedStrategy) Name() string            { return "fixed" }
func (f fixedStrategy) ShardID(string, int) int { return int(f) }

func TestNewSharded_Validation(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		shards   int
		wantErr  error
	}{
		{"zero capacity", 0, 1, ErrInvalidCapacity},
		{"zero shards", 4, 0, ErrInvalidShards},
		{"more shards than capacity", 2, 3, ErrInvalidShards},
		{"one shard", 4, 1, nil},
		{"one slot per shard", 4, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSharded(PolicyLRU, tt.capacity, tt.shards)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSharded(%d, %d) error = %v, want %v", tt.capacity, tt.shards, err, tt.wantErr)
			}
		})
	}
}

func TestNewSharded_UnknownPolicy(t *testing.T) {
	if _, err := NewSharded(Policy("random"), 4, 2); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("NewSharded(random) error = %v, want ErrUnknownPolicy", err)
	}
}

func TestSharded_CapacitySplit(t *testing.T) {
	// 10 over 3 shards: 4, 3, 3.
	tests := []struct {
		shard int
		want  int
	}{
		{0, 4},
		{1, 3},
		{2, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shard%d", tt.shard), func(t *testing.T) {
			c, err := NewSharded(PolicyFIFO, 10, 3, WithShardStrategy(fixedStrategy(tt.shard)))
			if err != nil {
				t.Fatalf("NewSharded() error = %v", err)
			}
			for i := 0; i < 10; i++ {
				c.Put(fmt.Sprintf("k%d", i), i)
			}
			if c.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.want)
			}
			if c.Cap() != 10 {
				t.Errorf("Cap() = %d, want 10", c.Cap())
			}
			if c.Shards() != 3 {
				t.Errorf("Shards() = %d, want 3", c.Shards())
			}
		})
	}
}

func TestSharded_Operations(t *testing.T) {
	clock := NewManualClock(epoch)
	c, err := NewSharded(PolicyLRU, 64, 4, WithClock(clock))
	if err != nil {
		t.Fatalf("NewSharded() error = %v", err)
	}

	c.Put("a", 1)
	c.PutWithTTL("b", 2, time.Second)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if len(c.Dump()) != 2 {
		t.Errorf("Dump() returned %d entries, want 2", len(c.Dump()))
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss after expiry")
	}
	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestSharded_ConcurrentAccess(t *testing.T) {
	const capacity = 128
	c, err := NewSharded(PolicyLRU, capacity, 8)
	if err != nil {
		t.Fatalf("NewSharded() error = %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%300)
				switch i % 4 {
				case 0:
					c.PutWithTTL(key, i, time.Minute)
				case 1:
					c.Put(key, i)
				case 2:
					c.Get(key)
				default:
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > capacity {
		t.Errorf("Len() = %d exceeds capacity %d", c.Len(), capacity)
	}
}

func TestSynchronized_Idempotent(t *testing.T) {
	c, err := NewFIFO(4)
	if err != nil {
		t.Fatalf("NewFIFO() error = %v", err)
	}
	s := Synchronized(c)
	if Synchronized(s) != s {
		t.Error("Synchronized() wrapped an already synchronized cache")
	}
}

func TestSynchronized_ConcurrentAccess(t *testing.T) {
	clock := NewManualClock(epoch)
	base, err := NewLRU(16, WithClock(clock))
	if err != nil {
		t.Fatalf("NewLRU() error = %v", err)
	}
	c := Synchronized(base)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g+i)%40)
				c.PutWithTTL(key, i, time.Duration(i%3)*time.Second)
				c.Get(key)
				if i%50 == 0 {
					clock.Advance(time.Second)
				}
			}
		}(g)
	}
	wg.Wait()

	checkInvariants(t, base.s)
}
