package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces fingerprint keys in a shared Redis instance.
const keyPrefix = "rstfmt:fp:"

// RedisStore backs the fingerprint store with Redis, for daemons that
// share one warm cache across hosts. Entries are written with no TTL;
// fingerprints are content-addressed and never go stale.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Lookup reports whether fingerprint exists in Redis.
func (s *RedisStore) Lookup(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+fingerprint).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Store writes fingerprint immediately; Redis needs no batching.
func (s *RedisStore) Store(ctx context.Context, fingerprint string) error {
	return s.client.Set(ctx, keyPrefix+fingerprint, 1, 0).Err()
}

// Flush does nothing; writes are immediate.
func (s *RedisStore) Flush(context.Context) error {
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
