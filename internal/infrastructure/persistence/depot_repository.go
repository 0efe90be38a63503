package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
)

// GormDepotRepository implements DepotRepository using GORM
type GormDepotRepository struct {
	db *gorm.DB
}

// NewGormDepotRepository creates a new GormDepotRepository
func NewGormDepotRepository(db *gorm.DB) *GormDepotRepository {
	return &GormDepotRepository{db: db}
}

// FindByID finds a depot by its ID
func (r *GormDepotRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Depot, error) {
	var depot catalog.Depot
	if err := r.db.WithContext(ctx).First(&depot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &depot, nil
}

// FindByIDForStore finds a depot by ID within a store
func (r *GormDepotRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Depot, error) {
	var depot catalog.Depot
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &depot, nil
}

// FindAllForStore lists depots for a store
func (r *GormDepotRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]catalog.Depot, error) {
	var depots []catalog.Depot
	q := applyListQuery(
		r.db.WithContext(ctx).Model(&catalog.Depot{}).
			Where("store_id = ?", storeID),
		query, DepotSortFields,
	)
	if err := q.Find(&depots).Error; err != nil {
		return nil, err
	}
	return depots, nil
}

// FindDefault finds the store's default depot
func (r *GormDepotRepository) FindDefault(ctx context.Context, storeID uuid.UUID) (*catalog.Depot, error) {
	var depot catalog.Depot
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_default = ?", storeID, true).
		First(&depot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &depot, nil
}

// Save creates or updates a depot
func (r *GormDepotRepository) Save(ctx context.Context, depot *catalog.Depot) error {
	return r.db.WithContext(ctx).Save(depot).Error
}

// Delete soft-deletes a depot
func (r *GormDepotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Depot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDepotRepository implements DepotRepository
var _ catalog.DepotRepository = (*GormDepotRepository)(nil)
