// Package sessionstore provides the session.Store backends: Redis for
// durability, an in-process map when Redis is unreachable.
package sessionstore

import (
	"context"
	"time"

	"honeypot-lab/internal/infrastructure/cache"
)

// RedisStore is the durable session store backed by Redis
type RedisStore struct {
	cache *cache.RedisCache
}

// NewRedisStore wraps an established Redis connection
func NewRedisStore(c *cache.RedisCache) *RedisStore {
	return &RedisStore{cache: c}
}

// Get retrieves serialized session state, (nil, nil) on a miss
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.cache.GetBytes(ctx, key)
}

// SetWithTTL stores serialized session state with an expiry
func (s *RedisStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.cache.SetBytes(ctx, key, value, ttl)
}

// Close closes the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.cache.Close()
}
