// Package memory provides in-memory implementations of the persistence ports
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/souschef/internal/ports/outbound"
)

// cacheEntry represents a cached value with its expiration
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e cacheEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// CacheRepository implements outbound.CacheRepository in process memory.
// Suitable for single-instance deployments and tests; use the redis
// implementation when replies must be shared across instances.
type CacheRepository struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	stop    chan struct{}
	once    sync.Once
}

// NewCacheRepository creates an in-memory cache with periodic expiry sweeps.
func NewCacheRepository() *CacheRepository {
	c := &CacheRepository{
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, or nil when absent or expired.
func (c *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.expired() {
		return nil, nil
	}
	return entry.value, nil
}

// Set stores value under key. A zero expiration means no expiry.
func (c *CacheRepository) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	entry := cacheEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete removes key from the cache.
func (c *CacheRepository) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Exists reports whether key holds an unexpired value.
func (c *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	return ok && !entry.expired(), nil
}

// Close stops the background sweep goroutine.
func (c *CacheRepository) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *CacheRepository) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.expired() {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
