package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// StockLocation is the quantity record for one product at one depot.
// Quantity is on-hand physical stock and never goes negative on a committed
// operation. Pending is the amount reserved by open orders; it may exceed
// Quantity for loosely tracked products, so it only feeds the sellable
// computation. All mutations go through the guarded methods below — the
// ledger is the only caller.
type StockLocation struct {
	shared.StoreAggregateRoot
	DepotID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_location_depot_product,priority:1"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_location_depot_product,priority:2"`
	Quantity     int64     `gorm:"not null;default:0"`
	Pending      int64     `gorm:"not null;default:0"`
	OutOfStock   bool      `gorm:"not null;default:false"`
	MinimumStock int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLocation) TableName() string {
	return "stock_locations"
}

// NewStockLocation creates an empty stock record for a (product, depot) pair
func NewStockLocation(storeID, depotID, productID uuid.UUID) (*StockLocation, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot ID is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "product ID is required")
	}

	return &StockLocation{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		DepotID:            depotID,
		ProductID:          productID,
	}, nil
}

// Sellable returns stock not yet claimed by reservations. May be negative
// for loosely tracked products that were oversold.
func (l *StockLocation) Sellable() int64 {
	return l.Quantity - l.Pending
}

// addStock increases on-hand quantity. Internal; the ledger routes here.
func (l *StockLocation) addStock(amount int64) error {
	if amount <= 0 {
		return shared.ErrInvalidQuantity
	}

	l.Quantity += amount
	if l.Quantity > 0 {
		l.OutOfStock = false
	}
	l.touch()

	l.AddDomainEvent(NewStockReceivedEvent(l, amount))
	return nil
}

// removeStock decreases on-hand quantity, refusing to go below zero.
func (l *StockLocation) removeStock(amount int64) error {
	if amount <= 0 {
		return shared.ErrInvalidQuantity
	}
	if l.Quantity < amount {
		return shared.ErrInsufficientStock
	}

	l.Quantity -= amount
	l.OutOfStock = l.Quantity == 0
	l.touch()

	l.AddDomainEvent(NewStockRemovedEvent(l, amount))
	if l.OutOfStock {
		l.AddDomainEvent(NewStockDepletedEvent(l))
	}
	return nil
}

// reserve adds to the pending counter. Strict products are capped at the
// sellable quantity; loose products may oversell without limit.
func (l *StockLocation) reserve(amount int64, strict bool) error {
	if amount <= 0 {
		return shared.ErrInvalidQuantity
	}
	if strict && amount > l.Sellable() {
		return shared.ErrInsufficientStock
	}

	l.Pending += amount
	l.touch()

	l.AddDomainEvent(NewStockReservedEvent(l, amount))
	return nil
}

// release drops a reservation. Clamps at zero: a correct caller never
// releases more than was reserved, but pending must not go negative from
// a logic error elsewhere.
func (l *StockLocation) release(amount int64) error {
	if amount <= 0 {
		return shared.ErrInvalidQuantity
	}

	released := amount
	if released > l.Pending {
		released = l.Pending
	}
	l.Pending -= released
	l.touch()

	l.AddDomainEvent(NewStockReleasedEvent(l, released))
	return nil
}

// pinQuantity overwrites on-hand quantity with a physically counted value.
// Used only by reconciliation after the delta has been pushed through the
// ledger; the counted figure is authoritative.
func (l *StockLocation) pinQuantity(counted int64) error {
	if counted < 0 {
		return shared.ErrInvalidQuantity
	}

	l.Quantity = counted
	l.OutOfStock = counted == 0
	l.touch()
	return nil
}

// SetMinimumStock updates the reorder threshold. Informational only; the
// ledger never enforces it.
func (l *StockLocation) SetMinimumStock(minimum int64) error {
	if minimum < 0 {
		return shared.NewDomainError("INVALID_INPUT", "minimum stock cannot be negative")
	}
	l.MinimumStock = minimum
	l.touch()
	return nil
}

func (l *StockLocation) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
