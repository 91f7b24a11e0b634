package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shoplist/backend/internal/domain"
)

const cleanupInterval = 10 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory cache with per-entry TTL. Values are
// stored as-is, so callers get back the exact value they put in; the cache is
// only used for process-local data (extracted recipes, catalog results).
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
}

// NewMemoryCache creates an in-memory cache and starts its cleanup loop
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get retrieves a value; expired or absent keys return ErrCacheMiss
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Exists reports whether a key is present and not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Size returns the current number of entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup loop
func (c *MemoryCache) Close() {
	close(c.stop)
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
