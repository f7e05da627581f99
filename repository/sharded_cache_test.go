package repository

import (
	"fmt"
	"testing"
)

func newShards(names ...string) map[string]CacheRepository {
	shards := make(map[string]CacheRepository, len(names))
	for _, n := range names {
		shards[n] = NewMockCache()
	}
	return shards
}

func TestShardedCache_RoundTrip(t *testing.T) {
	shards := newShards("redis-a:6379", "redis-b:6379", "redis-c:6379")
	cache, err := NewShardedCache(shards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("tvm:fv:%d", i)
		if err := cache.Set(key, "v"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if _, ok := cache.Get(key); !ok {
			t.Fatalf("key %s not found", key)
		}
		owner := shards[cache.Node(key)].(*MockCache)
		if _, ok := owner.Data[key]; !ok {
			t.Fatalf("key %s not stored on its owner", key)
		}
	}

	for name, shard := range shards {
		if len(shard.(*MockCache).Data) == 0 {
			t.Errorf("shard %s received no keys", name)
		}
	}
}

func TestShardedCache_RemovingNodeOnlyMovesItsKeys(t *testing.T) {
	full, _ := NewShardedCache(newShards("a", "b", "c"))
	reduced, _ := NewShardedCache(newShards("a", "b"))

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("k%d", i)
		before := full.Node(key)
		if before != "c" && reduced.Node(key) != before {
			t.Errorf("key %s moved from %s to %s", key, before, reduced.Node(key))
		}
	}
}

func TestShardedCache_NoShards(t *testing.T) {
	if _, err := NewShardedCache(nil); err == nil {
		t.Errorf("expected error for empty shard set")
	}
}
