package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// GormStockLocationRepository implements StockLocationRepository using GORM
type GormStockLocationRepository struct {
	db *gorm.DB
}

// NewGormStockLocationRepository creates a new GormStockLocationRepository
func NewGormStockLocationRepository(db *gorm.DB) *GormStockLocationRepository {
	return &GormStockLocationRepository{db: db}
}

// FindByID finds a stock location by its ID
func (r *GormStockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLocation, error) {
	var location stock.StockLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByDepotAndProduct finds the record for a (depot, product) pair
func (r *GormStockLocationRepository) FindByDepotAndProduct(ctx context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	var location stock.StockLocation
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND depot_id = ? AND product_id = ?", storeID, depotID, productID).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindForUpdate loads the record for a (depot, product) pair under a
// SELECT ... FOR UPDATE row lock. Must run inside a transaction.
func (r *GormStockLocationRepository) FindForUpdate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	var location stock.StockLocation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND depot_id = ? AND product_id = ?", storeID, depotID, productID).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// GetOrCreate returns the record for a (depot, product) pair, creating an
// empty one when the product has not been stocked in the depot yet
func (r *GormStockLocationRepository) GetOrCreate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	location, err := r.FindByDepotAndProduct(ctx, storeID, depotID, productID)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err = stock.NewStockLocation(storeID, depotID, productID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT absorbs the race when two writers introduce the same
	// product to the depot at once.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "depot_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(location).Error; err != nil {
		return nil, err
	}

	return r.FindByDepotAndProduct(ctx, storeID, depotID, productID)
}

// FindAllForDepot lists stock records in a depot
func (r *GormStockLocationRepository) FindAllForDepot(ctx context.Context, storeID, depotID uuid.UUID, query shared.ListQuery) ([]stock.StockLocation, error) {
	var locations []stock.StockLocation
	q := applyListQuery(
		r.db.WithContext(ctx).Model(&stock.StockLocation{}).
			Where("store_id = ? AND depot_id = ?", storeID, depotID),
		query, StockLocationSortFields,
	)
	if err := q.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAllForProduct lists a product's stock records across depots
func (r *GormStockLocationRepository) FindAllForProduct(ctx context.Context, storeID, productID uuid.UUID) ([]stock.StockLocation, error) {
	var locations []stock.StockLocation
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a stock location
func (r *GormStockLocationRepository) Save(ctx context.Context, location *stock.StockLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockLocationRepository) SaveWithLock(ctx context.Context, location *stock.StockLocation) error {
	result := r.db.WithContext(ctx).
		Model(location).
		Where("id = ? AND version = ?", location.ID, location.Version-1).
		Updates(map[string]interface{}{
			"quantity":      location.Quantity,
			"pending":       location.Pending,
			"out_of_stock":  location.OutOfStock,
			"minimum_stock": location.MinimumStock,
			"version":       location.Version,
			"updated_at":    location.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForDepot counts stock records in a depot
func (r *GormStockLocationRepository) CountForDepot(ctx context.Context, storeID, depotID uuid.UUID, query shared.ListQuery) (int64, error) {
	var count int64
	q := applyConditions(
		r.db.WithContext(ctx).Model(&stock.StockLocation{}).
			Where("store_id = ? AND depot_id = ?", storeID, depotID),
		query, StockLocationSortFields,
	)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockLocationRepository implements StockLocationRepository
var _ stock.StockLocationRepository = (*GormStockLocationRepository)(nil)
