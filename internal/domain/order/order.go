package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Status is the order lifecycle state as consumed by the stock engine
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// CanTransitionTo checks a status change against the order state machine.
// CREATED may complete or cancel; both outcomes are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusCreated {
		return false
	}
	return target == StatusCompleted || target == StatusCancelled
}

// Line is one product row on an order
type Line struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// LineInput is the caller-supplied payload for one order line
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Order is the sales-order boundary the stock engine consumes. Pricing,
// customers and fulfilment live outside this core; the engine only needs
// the depot, the lines and the lifecycle state.
type Order struct {
	shared.StoreAggregateRoot
	Code          string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_order_store_code,priority:2"`
	Status        Status     `gorm:"type:varchar(16);not null;default:'CREATED'"`
	DepotID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	StockReserved bool       `gorm:"not null;default:false"`
	CompletedBy   *uuid.UUID `gorm:"type:uuid"`
	CompletedAt   *time.Time
	Lines         []Line `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order in CREATED state
func NewOrder(storeID, depotID uuid.UUID, code string, lines []LineInput) (*Order, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot ID is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "order code is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "order requires at least one line")
	}

	o := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.TrimSpace(code),
		Status:             StatusCreated,
		DepotID:            depotID,
	}

	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "line product ID is required")
		}
		if in.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		o.Lines = append(o.Lines, Line{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    o.ID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		})
	}

	return o, nil
}

// MarkReserved records that stock reservations were taken for every line
func (o *Order) MarkReserved() error {
	if o.Status != StatusCreated {
		return shared.ErrInvalidState
	}
	o.StockReserved = true
	o.touch()
	return nil
}

// CanCompleteStock reports whether the completion hook may run: the order
// must still be open and its lines must have been reserved.
func (o *Order) CanCompleteStock() bool {
	return o.Status == StatusCreated && o.StockReserved
}

// Complete moves the order to its terminal COMPLETED state
func (o *Order) Complete(completedBy uuid.UUID, at time.Time) error {
	if !o.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrInvalidState
	}
	o.Status = StatusCompleted
	o.CompletedBy = &completedBy
	o.CompletedAt = &at
	o.touch()
	return nil
}

// Cancel moves the order to its terminal CANCELLED state
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.ErrInvalidState
	}
	o.Status = StatusCancelled
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Repository persists Order aggregates
type Repository interface {
	// FindByID finds an order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForStore finds an order by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Order, error)

	// FindAllForStore lists orders for a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, o *Order) error

	// SaveWithLock updates using optimistic locking on Version
	SaveWithLock(ctx context.Context, o *Order) error
}
