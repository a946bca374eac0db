package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Store is a KV backed by plain Redis strings.
// Values never expire: favorites live until overwritten.
type Store struct {
	client *redis.Client
}

// NewStore wraps an already connected client
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get retrieves the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, KVKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, KVKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Keys lists the logical keys under the kv prefix. SCAN may return a key
// twice while the keyspace is rehashed, so results are deduplicated.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var cursor uint64
	seen := make(map[string]struct{})
	for {
		batch, next, err := s.client.Scan(ctx, cursor, KeyPrefixKV+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, k := range batch {
			if logical, err := ExtractKVKey(k); err == nil {
				seen[logical] = struct{}{}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
