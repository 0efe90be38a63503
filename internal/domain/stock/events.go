package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStockLocation  = "StockLocation"
	AggregateTypeMovement       = "MovementDocument"
	AggregateTypeReconciliation = "ReconciliationDocument"
)

// Event type constants
const (
	EventTypeStockReceived           = "StockReceived"
	EventTypeStockRemoved            = "StockRemoved"
	EventTypeStockReserved           = "StockReserved"
	EventTypeStockReleased           = "StockReleased"
	EventTypeStockDepleted           = "StockDepleted"
	EventTypeMovementCompleted       = "MovementDocumentCompleted"
	EventTypeReconciliationCompleted = "ReconciliationCompleted"
)

// StockQuantityEvent carries the common payload of every stock-location event
type StockQuantityEvent struct {
	shared.BaseDomainEvent
	DepotID   uuid.UUID `json:"depot_id"`
	ProductID uuid.UUID `json:"product_id"`
	Amount    int64     `json:"amount"`
	Quantity  int64     `json:"quantity"`
	Pending   int64     `json:"pending"`
}

// LocationEvent is implemented by every stock-location event, letting
// handlers reach the affected product without a per-type assertion.
type LocationEvent interface {
	shared.DomainEvent
	Location() (depotID, productID uuid.UUID)
}

// Location returns the depot and product the event belongs to
func (e *StockQuantityEvent) Location() (uuid.UUID, uuid.UUID) {
	return e.DepotID, e.ProductID
}

func newStockQuantityEvent(eventType string, l *StockLocation, amount int64) StockQuantityEvent {
	return StockQuantityEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeStockLocation, l.ID, l.StoreID),
		DepotID:         l.DepotID,
		ProductID:       l.ProductID,
		Amount:          amount,
		Quantity:        l.Quantity,
		Pending:         l.Pending,
	}
}

// StockReceivedEvent is published when on-hand quantity increases
type StockReceivedEvent struct{ StockQuantityEvent }

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(l *StockLocation, amount int64) *StockReceivedEvent {
	return &StockReceivedEvent{newStockQuantityEvent(EventTypeStockReceived, l, amount)}
}

// StockRemovedEvent is published when on-hand quantity decreases
type StockRemovedEvent struct{ StockQuantityEvent }

// NewStockRemovedEvent creates a new StockRemovedEvent
func NewStockRemovedEvent(l *StockLocation, amount int64) *StockRemovedEvent {
	return &StockRemovedEvent{newStockQuantityEvent(EventTypeStockRemoved, l, amount)}
}

// StockReservedEvent is published when pending quantity increases
type StockReservedEvent struct{ StockQuantityEvent }

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(l *StockLocation, amount int64) *StockReservedEvent {
	return &StockReservedEvent{newStockQuantityEvent(EventTypeStockReserved, l, amount)}
}

// StockReleasedEvent is published when pending quantity decreases
type StockReleasedEvent struct{ StockQuantityEvent }

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(l *StockLocation, amount int64) *StockReleasedEvent {
	return &StockReleasedEvent{newStockQuantityEvent(EventTypeStockReleased, l, amount)}
}

// StockDepletedEvent is published when on-hand quantity reaches zero
type StockDepletedEvent struct{ StockQuantityEvent }

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(l *StockLocation) *StockDepletedEvent {
	return &StockDepletedEvent{newStockQuantityEvent(EventTypeStockDepleted, l, 0)}
}

// MovementCompletedEvent is published when a movement document completes
type MovementCompletedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	Code       string       `json:"code"`
	Kind       MovementKind `json:"kind"`
	DepotID    uuid.UUID    `json:"depot_id"`
	LineCount  int          `json:"line_count"`
}

// NewMovementCompletedEvent creates a new MovementCompletedEvent
func NewMovementCompletedEvent(doc *MovementDocument) *MovementCompletedEvent {
	return &MovementCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementCompleted, AggregateTypeMovement, doc.ID, doc.StoreID),
		DocumentID:      doc.ID,
		Code:            doc.Code,
		Kind:            doc.Kind,
		DepotID:         doc.DepotID,
		LineCount:       len(doc.Lines),
	}
}

// ReconciliationCompletedEvent is published when a physical count completes
type ReconciliationCompletedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	Code           string          `json:"code"`
	DepotID        uuid.UUID       `json:"depot_id"`
	TotalStock     int64           `json:"total_stock"`
	TotalReal      int64           `json:"total_real"`
	TotalMoneyDiff decimal.Decimal `json:"total_money_diff"`
}

// NewReconciliationCompletedEvent creates a new ReconciliationCompletedEvent
func NewReconciliationCompletedEvent(doc *ReconciliationDocument) *ReconciliationCompletedEvent {
	return &ReconciliationCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReconciliationCompleted, AggregateTypeReconciliation, doc.ID, doc.StoreID),
		DocumentID:      doc.ID,
		Code:            doc.Code,
		DepotID:         doc.DepotID,
		TotalStock:      doc.TotalStock,
		TotalReal:       doc.TotalReal,
		TotalMoneyDiff:  doc.TotalMoneyDiff,
	}
}
