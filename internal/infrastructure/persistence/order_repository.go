package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&ord, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindByIDForStore finds an order by ID within a store
func (r *GormOrderRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	var ord order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&ord).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// FindAllForStore lists orders for a store
func (r *GormOrderRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]order.Order, error) {
	var orders []order.Order
	q := applyListQuery(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Preload("Lines").
			Where("store_id = ?", storeID),
		query, OrderSortFields,
	)
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order with its lines
func (r *GormOrderRepository) Save(ctx context.Context, ord *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(ord).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("order_id = ?", ord.ID).Delete(&order.Line{}).Error; err != nil {
			return err
		}
		if len(ord.Lines) == 0 {
			return nil
		}
		for i := range ord.Lines {
			ord.Lines[i].OrderID = ord.ID
		}
		return tx.Create(&ord.Lines).Error
	})
}

// SaveWithLock saves the order header with optimistic locking (checks
// version). Lines are immutable once the order exists, so only the header
// is written.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, ord *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ? AND version = ?", ord.ID, ord.Version-1).
		Updates(map[string]interface{}{
			"status":         ord.Status,
			"stock_reserved": ord.StockReserved,
			"completed_by":   ord.CompletedBy,
			"completed_at":   ord.CompletedAt,
			"version":        ord.Version,
			"updated_at":     ord.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
