package micro

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/trace"
	"github.com/discochess/evictcache/internal/codec/zstdcodec"
	"github.com/discochess/evictcache/internal/readthrough"
)

const benchCapacity = 10_000

func keys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("key-%d", i)
	}
	return out
}

func newCache(b *testing.B, policy evictcache.Policy, opts ...evictcache.Option) evictcache.Cache {
	b.Helper()
	c, err := evictcache.New(policy, benchCapacity, opts...)
	if err != nil {
		b.Fatalf("creating cache: %v", err)
	}
	return c
}

// BenchmarkGet_Hit measures lookups of live keys.
func BenchmarkGet_Hit(b *testing.B) {
	ks := keys(benchCapacity)
	for _, policy := range evictcache.Policies() {
		b.Run(string(policy), func(b *testing.B) {
			c := newCache(b, policy)
			for _, k := range ks {
				c.PutWithTTL(k, k, time.Hour)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, ok := c.Get(ks[i%len(ks)]); !ok {
					b.Fatal("unexpected miss")
				}
			}
		})
	}
}

// BenchmarkPut_CapacityEviction measures inserts into a full cache where
// every put evicts the oldest entry.
func BenchmarkPut_CapacityEviction(b *testing.B) {
	ks := keys(4 * benchCapacity)
	for _, policy := range evictcache.Policies() {
		b.Run(string(policy), func(b *testing.B) {
			c := newCache(b, policy)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Put(ks[i%len(ks)], i)
			}
		})
	}
}

// BenchmarkPut_ExpiredSweep measures inserts into a full cache whose
// entries expire in a steady stream, so each put reclaims expired entries
// instead of live ones.
func BenchmarkPut_ExpiredSweep(b *testing.B) {
	ks := keys(4 * benchCapacity)
	for _, policy := range evictcache.Policies() {
		b.Run(string(policy), func(b *testing.B) {
			clock := evictcache.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			c := newCache(b, policy, evictcache.WithClock(clock))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.PutWithTTL(ks[i%len(ks)], i, benchCapacity*time.Millisecond)
				clock.Advance(time.Millisecond)
			}
		})
	}
}

// BenchmarkSharded_Parallel measures mixed traffic on a lock-striped cache.
func BenchmarkSharded_Parallel(b *testing.B) {
	ks := keys(2 * benchCapacity)
	for _, shards := range []int{1, 8, 32} {
		b.Run(fmt.Sprintf("shards=%d", shards), func(b *testing.B) {
			c, err := evictcache.NewSharded(evictcache.PolicyLRU, benchCapacity, shards)
			if err != nil {
				b.Fatalf("creating cache: %v", err)
			}

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					k := ks[i%len(ks)]
					if _, ok := c.Get(k); !ok {
						c.Put(k, i)
					}
					i++
				}
			})
		})
	}
}

// BenchmarkReadThrough_Warm measures read-through gets that always hit.
func BenchmarkReadThrough_Warm(b *testing.B) {
	c := evictcache.Synchronized(newCache(b, evictcache.PolicyLRU))
	rt := readthrough.New(c, readthrough.SourceFunc(func(_ context.Context, key string) (any, error) {
		return key, nil
	}))
	ctx := context.Background()
	ks := keys(1000)
	for _, k := range ks {
		if _, err := rt.Get(ctx, k); err != nil {
			b.Fatalf("warming: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.Get(ctx, ks[i%len(ks)]); err != nil {
			b.Fatalf("get: %v", err)
		}
	}
}

// BenchmarkTrace_ParseZstd measures decoding a compressed trace.
func BenchmarkTrace_ParseZstd(b *testing.B) {
	cfg := trace.DefaultGenerateConfig()
	cfg.Ops = 50_000
	ops, err := trace.Generate(cfg)
	if err != nil {
		b.Fatalf("generating trace: %v", err)
	}

	codec := zstdcodec.New()
	var compressed bytes.Buffer
	w, err := codec.Writer(&compressed)
	if err != nil {
		b.Fatalf("creating writer: %v", err)
	}
	if err := trace.Write(w, ops); err != nil {
		b.Fatalf("writing trace: %v", err)
	}
	if err := w.Close(); err != nil {
		b.Fatalf("closing writer: %v", err)
	}
	data := compressed.Bytes()

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := codec.Reader(bytes.NewReader(data))
		if err != nil {
			b.Fatalf("creating reader: %v", err)
		}
		if _, err := trace.Parse(r); err != nil {
			b.Fatalf("parsing: %v", err)
		}
		r.Close()
	}
}
