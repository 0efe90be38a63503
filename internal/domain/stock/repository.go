package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// StockLocationRepository persists StockLocation aggregates.
//
// StockLocation rows are the only shared mutable resource in the engine.
// Mutating callers must load them with FindForUpdate inside a transaction
// scope so concurrent writers serialize at the row, and persist with
// SaveWithLock so a lost update surfaces as CONCURRENCY_CONFLICT instead
// of silently overwriting.
type StockLocationRepository interface {
	// FindByID finds a stock location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLocation, error)

	// FindByDepotAndProduct finds the record for a (depot, product) pair
	FindByDepotAndProduct(ctx context.Context, storeID, depotID, productID uuid.UUID) (*StockLocation, error)

	// FindForUpdate loads the record for a (depot, product) pair under a
	// row-level lock. Must be called inside a transaction scope.
	FindForUpdate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*StockLocation, error)

	// GetOrCreate returns the record for a (depot, product) pair, creating
	// an empty one when the product has not been stocked in the depot yet
	GetOrCreate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*StockLocation, error)

	// FindAllForDepot lists stock records in a depot
	FindAllForDepot(ctx context.Context, storeID, depotID uuid.UUID, query shared.ListQuery) ([]StockLocation, error)

	// FindAllForProduct lists a product's stock records across depots
	FindAllForProduct(ctx context.Context, storeID, productID uuid.UUID) ([]StockLocation, error)

	// Save creates or updates a stock location
	Save(ctx context.Context, location *StockLocation) error

	// SaveWithLock updates using optimistic locking on Version
	SaveWithLock(ctx context.Context, location *StockLocation) error

	// CountForDepot counts stock records in a depot
	CountForDepot(ctx context.Context, storeID, depotID uuid.UUID, query shared.ListQuery) (int64, error)
}

// MovementDocumentRepository persists MovementDocument aggregates with
// their lines. Lines load and save together with the header; they are
// never addressed outside their document.
type MovementDocumentRepository interface {
	// FindByID finds a document with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*MovementDocument, error)

	// FindByIDForStore finds a document by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*MovementDocument, error)

	// FindByCode finds a document by its code within a store
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*MovementDocument, error)

	// FindAllForStore lists documents for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]MovementDocument, error)

	// CountForStore counts documents for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error)

	// NextSequence reserves the next per-day sequence number for a code
	// prefix. Called inside the creation transaction so generated codes
	// stay unique under concurrent writers.
	NextSequence(ctx context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error)

	// Save creates or updates a document and replaces its lines
	Save(ctx context.Context, doc *MovementDocument) error

	// SaveWithLock updates using optimistic locking on Version
	SaveWithLock(ctx context.Context, doc *MovementDocument) error

	// Delete soft-deletes a document and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReconciliationRepository persists ReconciliationDocument aggregates
type ReconciliationRepository interface {
	// FindByID finds a document with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*ReconciliationDocument, error)

	// FindByIDForStore finds a document by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*ReconciliationDocument, error)

	// FindAllForStore lists documents for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]ReconciliationDocument, error)

	// CountForStore counts documents for a store
	CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error)

	// NextSequence reserves the next per-day sequence number for count codes
	NextSequence(ctx context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error)

	// Save creates or updates a document and replaces its lines
	Save(ctx context.Context, doc *ReconciliationDocument) error

	// SaveWithLock updates using optimistic locking on Version
	SaveWithLock(ctx context.Context, doc *ReconciliationDocument) error

	// Delete soft-deletes a document and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// FormatDocumentCode renders a document code as <PREFIX>-<YYYYMMDD>-<NNNN>
func FormatDocumentCode(prefix string, day time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), sequence)
}
