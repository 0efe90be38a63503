package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type sellableEntry struct {
	sellable  int64
	expiresAt time.Time
}

// InMemorySellableStockCache caches sellable quantities in process memory.
// This is suitable for single-instance deployments and testing.
type InMemorySellableStockCache struct {
	mu        sync.RWMutex
	entries   map[string]sellableEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySellableStockCache creates a new in-memory sellable stock cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemorySellableStockCache(ttl time.Duration) *InMemorySellableStockCache {
	cache := &InMemorySellableStockCache{
		entries:  make(map[string]sellableEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

func cacheKey(storeID, productID uuid.UUID) string {
	return storeID.String() + ":" + productID.String()
}

// Get returns the cached sellable quantity for a product.
// The second return value reports whether a fresh cached value was present.
func (c *InMemorySellableStockCache) Get(ctx context.Context, storeID, productID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[cacheKey(storeID, productID)]
	if !exists || time.Now().After(e.expiresAt) {
		return 0, false, nil
	}
	return e.sellable, true, nil
}

// Set stores the sellable quantity for a product with the configured TTL
func (c *InMemorySellableStockCache) Set(ctx context.Context, storeID, productID uuid.UUID, sellable int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(storeID, productID)] = sellableEntry{
		sellable:  sellable,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached value for a product
func (c *InMemorySellableStockCache) Invalidate(ctx context.Context, storeID, productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey(storeID, productID))
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *InMemorySellableStockCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemorySellableStockCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemorySellableStockCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemorySellableStockCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
