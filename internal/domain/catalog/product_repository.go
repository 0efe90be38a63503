package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForStore finds a product by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code within a store
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForStore finds all products for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product using optimistic locking on Version
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete soft-deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForStore counts products for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error)

	// ExistsByCode checks if a product with the given code exists in the store
	ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
}
