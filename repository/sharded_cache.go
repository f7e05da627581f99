package repository

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// ShardedCache spreads keys over several caches by rendezvous hashing, so
// adding or removing a node only moves the keys that node owned.
type ShardedCache struct {
	ring   *rendezvous.Rendezvous
	shards map[string]CacheRepository
}

// NewShardedCache takes the shards keyed by node name (usually the Redis address).
func NewShardedCache(shards map[string]CacheRepository) (*ShardedCache, error) {
	if len(shards) == 0 {
		return nil, fmt.Errorf("sharded cache: no shards")
	}
	nodes := make([]string, 0, len(shards))
	for name := range shards {
		nodes = append(nodes, name)
	}
	return &ShardedCache{
		ring:   rendezvous.New(nodes, xxhash.Sum64String),
		shards: shards,
	}, nil
}

// Node returns the name of the shard that owns key.
func (s *ShardedCache) Node(key string) string {
	return s.ring.Lookup(key)
}

func (s *ShardedCache) Get(key string) (string, bool) {
	return s.shards[s.Node(key)].Get(key)
}

func (s *ShardedCache) Set(key string, value string) error {
	node := s.Node(key)
	if err := s.shards[node].Set(key, value); err != nil {
		return fmt.Errorf("shard %s: %w", node, err)
	}
	return nil
}
