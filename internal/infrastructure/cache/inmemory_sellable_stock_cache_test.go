package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySellableStockCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get returns cached value", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(time.Minute)
		defer cache.Close()

		storeID := uuid.New()
		productID := uuid.New()

		require.NoError(t, cache.Set(ctx, storeID, productID, 42))

		sellable, found, err := cache.Get(ctx, storeID, productID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(42), sellable)
	})

	t.Run("get on missing key reports not found", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(time.Minute)
		defer cache.Close()

		_, found, err := cache.Get(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(time.Minute)
		defer cache.Close()

		storeID := uuid.New()
		productID := uuid.New()

		require.NoError(t, cache.Set(ctx, storeID, productID, 7))
		require.NoError(t, cache.Invalidate(ctx, storeID, productID))

		_, found, err := cache.Get(ctx, storeID, productID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(10 * time.Millisecond)
		defer cache.Close()

		storeID := uuid.New()
		productID := uuid.New()

		require.NoError(t, cache.Set(ctx, storeID, productID, 3))
		time.Sleep(20 * time.Millisecond)

		_, found, err := cache.Get(ctx, storeID, productID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("entries are isolated per product", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(time.Minute)
		defer cache.Close()

		storeID := uuid.New()
		first := uuid.New()
		second := uuid.New()

		require.NoError(t, cache.Set(ctx, storeID, first, 1))
		require.NoError(t, cache.Set(ctx, storeID, second, 2))
		require.NoError(t, cache.Invalidate(ctx, storeID, first))

		sellable, found, err := cache.Get(ctx, storeID, second)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(2), sellable)
		assert.Equal(t, 1, cache.Size())
	})

	t.Run("close is safe to call twice", func(t *testing.T) {
		cache := NewInMemorySellableStockCache(time.Minute)
		assert.NoError(t, cache.Close())
		assert.NoError(t, cache.Close())
	})
}
