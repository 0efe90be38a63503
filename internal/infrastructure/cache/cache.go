package cache

import (
	appcatalog "github.com/shopcore/backend/internal/application/catalog"
)

// Both implementations satisfy the product mirror handler's cache port.
var (
	_ appcatalog.SellableStockCache = (*RedisSellableStockCache)(nil)
	_ appcatalog.SellableStockCache = (*InMemorySellableStockCache)(nil)
)
