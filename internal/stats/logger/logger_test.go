package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/evictcache/internal/stats"
)

func TestCollector_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricHits, "lru", 2)
	c.SetGauge(stats.MetricEntries, "lru", 7)
	c.ObserveHistogram(stats.MetricReclaimed, "lru", 1)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}

	wantMessages := []string{"counter", "gauge", "histogram"}
	for i, e := range entries {
		if e.Message != wantMessages[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, wantMessages[i])
		}
		fields := e.ContextMap()
		if fields[stats.LabelCache] != "lru" {
			t.Errorf("entry %d cache = %v, want lru", i, fields[stats.LabelCache])
		}
	}

	if got := entries[0].ContextMap()["delta"]; got != int64(2) {
		t.Errorf("counter delta = %v, want 2", got)
	}
	if got := entries[1].ContextMap()["value"]; got != int64(7) {
		t.Errorf("gauge value = %v, want 7", got)
	}
}

func TestCollector_SilentAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricMisses, "fifo", 1)

	if logs.Len() != 0 {
		t.Errorf("logged %d entries at info level, want 0", logs.Len())
	}
}

func TestNew_NilLogger(t *testing.T) {
	c := New(nil)
	// Must not panic.
	c.IncCounter(stats.MetricHits, "x", 1)
	c.SetGauge(stats.MetricEntries, "x", 1)
	c.ObserveHistogram(stats.MetricReclaimed, "x", 1)
}
