package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// StockTotalsReader aggregates a product's quantity and pending across all
// depots. Satisfied by the stock query service.
type StockTotalsReader interface {
	ProductTotals(ctx context.Context, storeID, productID uuid.UUID) (quantity, pending int64, outOfStock bool, err error)
}

// SellableStockCache invalidates cached sellable-stock figures when the
// underlying stock records change.
type SellableStockCache interface {
	Invalidate(ctx context.Context, storeID, productID uuid.UUID) error
}

// StockMirrorHandler keeps the denormalized stock columns on products in
// sync with the per-depot stock records. The records stay authoritative;
// the mirror only serves catalog reads and the low-stock alert.
type StockMirrorHandler struct {
	logger         *zap.Logger
	productRepo    catalog.ProductRepository
	totals         StockTotalsReader
	cache          SellableStockCache
	eventPublisher shared.EventPublisher
}

// NewStockMirrorHandler creates a new handler for stock-location events
func NewStockMirrorHandler(logger *zap.Logger, productRepo catalog.ProductRepository, totals StockTotalsReader) *StockMirrorHandler {
	return &StockMirrorHandler{
		logger:      logger,
		productRepo: productRepo,
		totals:      totals,
	}
}

// WithCache sets the sellable-stock cache to invalidate on sync
func (h *StockMirrorHandler) WithCache(cache SellableStockCache) *StockMirrorHandler {
	h.cache = cache
	return h
}

// WithEventPublisher sets the publisher for low-stock events
func (h *StockMirrorHandler) WithEventPublisher(publisher shared.EventPublisher) *StockMirrorHandler {
	h.eventPublisher = publisher
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockMirrorHandler) EventTypes() []string {
	return []string{
		stock.EventTypeStockReceived,
		stock.EventTypeStockRemoved,
		stock.EventTypeStockReserved,
		stock.EventTypeStockReleased,
		stock.EventTypeStockDepleted,
	}
}

// Handle resyncs the product mirror after a stock-location change
func (h *StockMirrorHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	locationEvent, ok := event.(stock.LocationEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("type", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	_, productID := locationEvent.Location()
	storeID := event.StoreID()

	quantity, pending, outOfStock, err := h.totals.ProductTotals(ctx, storeID, productID)
	if err != nil {
		return fmt.Errorf("aggregate stock totals: %w", err)
	}

	product, err := h.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return fmt.Errorf("load product for mirror sync: %w", err)
	}

	wasBelowMinimum := product.BelowMinimum()
	product.SyncStockMirror(quantity, pending, outOfStock)
	if err := h.productRepo.SaveWithLock(ctx, product); err != nil {
		return fmt.Errorf("save product mirror: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, storeID, productID); err != nil {
			// Stale cache entries expire on their own; the sync itself succeeded.
			h.logger.Warn("sellable stock cache invalidation failed",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}

	if product.BelowMinimum() && !wasBelowMinimum {
		h.logger.Warn("product stock below minimum",
			zap.String("product_id", product.ID.String()),
			zap.String("code", product.Code),
			zap.Int64("stock", product.Stock),
			zap.Int64("minimum_stock", product.MinimumStock),
		)
		if h.eventPublisher != nil {
			_ = h.eventPublisher.Publish(ctx, catalog.NewProductBelowMinimumEvent(product))
		}
	}

	h.logger.Debug("product stock mirror synced",
		zap.String("product_id", product.ID.String()),
		zap.Int64("stock", quantity),
		zap.Int64("pending", pending),
	)
	return nil
}

// Ensure StockMirrorHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockMirrorHandler)(nil)
