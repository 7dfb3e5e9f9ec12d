package xxshard

import (
	"fmt"
	"testing"
)

func TestStrategy_Name(t *testing.T) {
	if got := New().Name(); got != "xxhash64" {
		t.Errorf("Name() = %q, want %q", got, "xxhash64")
	}
}

func TestStrategy_ShardID(t *testing.T) {
	s := New()
	total := 16
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("k%d", i)
		id := s.ShardID(key, total)
		if id < 0 || id >= total {
			t.Fatalf("ShardID(%q) = %d, want 0 <= id < %d", key, id, total)
		}
		if again := s.ShardID(key, total); again != id {
			t.Fatalf("ShardID(%q) not consistent: got %d and %d", key, id, again)
		}
		seen[id] = true
	}
	if len(seen) != total {
		t.Errorf("1000 keys hit %d shards, want all %d", len(seen), total)
	}
}

func TestStrategy_ShardID_SingleShard(t *testing.T) {
	if got := New().ShardID("anything", 1); got != 0 {
		t.Errorf("ShardID() = %d, want 0", got)
	}
}
