package event

import (
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/stock"
)

// RegisterAllEvents registers all domain event types with the serializer
// so persisted or forwarded events can be deserialized back into their
// concrete types.
func RegisterAllEvents(serializer *EventSerializer) {
	// Stock domain - location quantity events
	serializer.Register(stock.EventTypeStockReceived, &stock.StockReceivedEvent{})
	serializer.Register(stock.EventTypeStockRemoved, &stock.StockRemovedEvent{})
	serializer.Register(stock.EventTypeStockReserved, &stock.StockReservedEvent{})
	serializer.Register(stock.EventTypeStockReleased, &stock.StockReleasedEvent{})
	serializer.Register(stock.EventTypeStockDepleted, &stock.StockDepletedEvent{})

	// Stock domain - document lifecycle events
	serializer.Register(stock.EventTypeMovementCompleted, &stock.MovementCompletedEvent{})
	serializer.Register(stock.EventTypeReconciliationCompleted, &stock.ReconciliationCompletedEvent{})

	// Catalog domain
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductBelowMinimum, &catalog.ProductBelowMinimumEvent{})
}
