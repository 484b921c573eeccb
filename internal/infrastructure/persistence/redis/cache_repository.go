// Package redis provides Redis-backed implementations of the persistence ports
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

// CacheRepository implements outbound.CacheRepository on Redis, for
// deployments where completion caches should survive restarts and be
// shared across instances.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository connects to Redis and verifies the connection.
func NewCacheRepository(ctx context.Context, addr, password string, db int) (*CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &CacheRepository{client: client}, nil
}

// Get returns the cached value for key, or nil when absent.
func (c *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key. A zero expiration means no expiry.
func (c *CacheRepository) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (c *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Exists reports whether key is present.
func (c *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool.
func (c *CacheRepository) Close() error {
	return c.client.Close()
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
