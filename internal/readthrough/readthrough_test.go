package readthrough

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/evictcache"
)

// fakeSource serves values from a map and counts loads.
type fakeSource struct {
	data  map[string]any
	err   error
	calls atomic.Int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{data: make(map[string]any)}
}

func (s *fakeSource) Load(_ context.Context, key string) (any, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return nil, ErrNotFound
}

func newLRU(t *testing.T, capacity int, opts ...evictcache.Option) evictcache.Cache {
	t.Helper()
	c, err := evictcache.NewLRU(capacity, opts...)
	if err != nil {
		t.Fatalf("NewLRU() error = %v", err)
	}
	return evictcache.Synchronized(c)
}

func TestCache_Hit(t *testing.T) {
	src := newFakeSource()
	backing := newLRU(t, 4)
	backing.Put("a", "cached")

	c := New(backing, src)
	got, err := c.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "cached" {
		t.Errorf("Get() = %v, want %q", got, "cached")
	}
	if src.calls.Load() != 0 {
		t.Errorf("source called %d times, want 0", src.calls.Load())
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 0 {
		t.Errorf("Stats() = %+v, want 1 hit", s)
	}
}

func TestCache_MissLoadsAndStores(t *testing.T) {
	src := newFakeSource()
	src.data["a"] = 42
	c := New(newLRU(t, 4), src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.Get(ctx, "a")
		if err != nil {
			t.Fatalf("Get() #%d error = %v", i, err)
		}
		if got != 42 {
			t.Errorf("Get() #%d = %v, want 42", i, got)
		}
	}

	if src.calls.Load() != 1 {
		t.Errorf("source called %d times, want 1", src.calls.Load())
	}
	want := Stats{Hits: 2, Misses: 1, Loads: 1, Size: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestCache_NotFound(t *testing.T) {
	src := newFakeSource()
	c := New(newLRU(t, 4), src)

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if c.Stats().Size != 0 {
		t.Errorf("Stats().Size = %d, want 0", c.Stats().Size)
	}
	if c.Stats().LoadErrors != 1 {
		t.Errorf("Stats().LoadErrors = %d, want 1", c.Stats().LoadErrors)
	}
}

func TestCache_LoadErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src := newFakeSource()
	src.err = errors.New("backend down")

	c := New(newLRU(t, 4), src, WithLogger(zap.New(core)))
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("Get() expected error, got nil")
	}

	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["key"]; got != "k" {
		t.Errorf("log key = %v, want k", got)
	}
}

func TestCache_TTL(t *testing.T) {
	clock := evictcache.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	src := newFakeSource()
	src.data["a"] = 1
	c := New(newLRU(t, 4, evictcache.WithClock(clock)), src, WithTTL(time.Minute))
	ctx := context.Background()

	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if src.calls.Load() != 1 {
		t.Errorf("source called %d times before expiry, want 1", src.calls.Load())
	}

	clock.Advance(time.Minute)
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if src.calls.Load() != 2 {
		t.Errorf("source called %d times after expiry, want 2", src.calls.Load())
	}
}

func TestCache_SetAndInvalidate(t *testing.T) {
	src := newFakeSource()
	src.data["a"] = "from source"
	c := New(newLRU(t, 4), src)
	ctx := context.Background()

	c.Set("a", "direct")
	if got, _ := c.Get(ctx, "a"); got != "direct" {
		t.Errorf("Get() after Set = %v, want direct", got)
	}

	if !c.Invalidate("a") {
		t.Error("Invalidate(a) = false, want true")
	}
	if got, _ := c.Get(ctx, "a"); got != "from source" {
		t.Errorf("Get() after Invalidate = %v, want %q", got, "from source")
	}
}

func TestCache_ConcurrentMissesShareLoad(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	src := SourceFunc(func(ctx context.Context, key string) (any, error) {
		calls.Add(1)
		<-release
		return "v:" + key, nil
	})
	c := New(newLRU(t, 8), src)

	const callers = 10
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), "hot")
			if err != nil {
				errs <- err
				return
			}
			if v != "v:hot" {
				errs <- fmt.Errorf("Get() = %v, want v:hot", v)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if calls.Load() != 1 {
		t.Errorf("source called %d times, want 1", calls.Load())
	}
}

func TestCache_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	src := SourceFunc(func(ctx context.Context, key string) (any, error) {
		<-release
		return 1, nil
	})
	c := New(newLRU(t, 4), src)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.Get(ctx, "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() error = %v, want DeadlineExceeded", err)
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"50% hit rate", 5, 5, 50},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
