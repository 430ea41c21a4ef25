package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopscout/backend/internal/domain"
)

// defaultCleanupInterval is how often expired search results are swept out
const defaultCleanupInterval = 5 * time.Minute

// entry is a single cached value with its expiration
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support, used to
// hold assembled search results between identical searches.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]entry
	stop chan struct{}
}

// NewMemoryCache creates a memory cache and starts its cleanup goroutine
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}

	go c.cleanupLoop(defaultCleanupInterval)

	return c
}

// Get retrieves a value; expired or missing keys return ErrCacheMiss
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, domain.ErrCacheMiss
	}

	return e.value, nil
}

// Set stores a value with the given TTL. The value is round-tripped through
// JSON so readers always see the same generic shape a Redis-backed cache
// would hand back.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{
		value:     stored,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// Exists reports whether a key is present and not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}

	return true, nil
}

// Size returns the current number of entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear removes every entry
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	close(c.stop)
}

// cleanupLoop sweeps expired entries until Close is called
func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, e := range c.data {
				if now.After(e.expiresAt) {
					delete(c.data, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
