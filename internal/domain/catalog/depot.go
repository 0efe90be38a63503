package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Depot is a physical stock-keeping location. Each product holds at most
// one stock record per depot.
type Depot struct {
	shared.StoreAggregateRoot
	Name      string `gorm:"type:varchar(100);not null"`
	Address   string `gorm:"type:varchar(255)"`
	IsDefault bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Depot) TableName() string {
	return "depots"
}

// NewDepot creates a new depot
func NewDepot(storeID uuid.UUID, name, address string) (*Depot, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot name cannot exceed 100 characters")
	}

	return &Depot{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Address:            strings.TrimSpace(address),
	}, nil
}

// Update updates the depot's details
func (d *Depot) Update(name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "depot name is required")
	}
	d.Name = name
	d.Address = strings.TrimSpace(address)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// MarkDefault flags the depot as the store's default receiving location
func (d *Depot) MarkDefault() {
	d.IsDefault = true
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// DepotRepository defines the interface for depot persistence
type DepotRepository interface {
	// FindByID finds a depot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Depot, error)

	// FindByIDForStore finds a depot by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Depot, error)

	// FindAllForStore finds all depots for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]Depot, error)

	// FindDefault finds the store's default depot
	FindDefault(ctx context.Context, storeID uuid.UUID) (*Depot, error)

	// Save creates or updates a depot
	Save(ctx context.Context, depot *Depot) error

	// Delete soft-deletes a depot
	Delete(ctx context.Context, id uuid.UUID) error
}
