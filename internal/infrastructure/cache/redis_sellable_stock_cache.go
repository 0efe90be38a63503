package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSellableStockCache caches per-product sellable quantities in Redis.
// This is suitable for distributed deployments where multiple instances
// serve storefront reads against the same stock data.
type RedisSellableStockCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSellableStockCache creates a new Redis-backed sellable stock cache
func NewRedisSellableStockCache(cfg RedisConfig, ttl time.Duration) (*RedisSellableStockCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSellableStockCache{
		client:    client,
		keyPrefix: "stock:sellable:",
		ttl:       ttl,
	}, nil
}

// NewRedisSellableStockCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSellableStockCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSellableStockCache {
	if keyPrefix == "" {
		keyPrefix = "stock:sellable:"
	}
	return &RedisSellableStockCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisSellableStockCache) key(storeID, productID uuid.UUID) string {
	return c.keyPrefix + storeID.String() + ":" + productID.String()
}

// Get returns the cached sellable quantity for a product.
// The second return value reports whether a cached value was present.
func (c *RedisSellableStockCache) Get(ctx context.Context, storeID, productID uuid.UUID) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(storeID, productID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read sellable stock from cache: %w", err)
	}
	sellable, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt sellable stock cache entry: %w", err)
	}
	return sellable, true, nil
}

// Set stores the sellable quantity for a product with the configured TTL
func (c *RedisSellableStockCache) Set(ctx context.Context, storeID, productID uuid.UUID, sellable int64) error {
	if err := c.client.Set(ctx, c.key(storeID, productID), strconv.FormatInt(sellable, 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache sellable stock: %w", err)
	}
	return nil
}

// Invalidate drops the cached value after a stock change so the next read
// goes back to the ledger.
func (c *RedisSellableStockCache) Invalidate(ctx context.Context, storeID, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(storeID, productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate sellable stock cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSellableStockCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisSellableStockCache) GetClient() *redis.Client {
	return c.client
}
