package catalog

import (
	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated         = "ProductCreated"
	EventTypeProductBelowMinimum    = "ProductBelowMinimum"
	EventTypeProductMirrorOutOfSync = "ProductMirrorOutOfSync"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID    `json:"product_id"`
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	TrackingMode TrackingMode `json:"tracking_mode"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		TrackingMode:    product.TrackingMode,
	}
}

// ProductBelowMinimumEvent is published when a mirror sync leaves the
// product under its minimum stock threshold
type ProductBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	Code         string    `json:"code"`
	Stock        int64     `json:"stock"`
	MinimumStock int64     `json:"minimum_stock"`
}

// NewProductBelowMinimumEvent creates a new ProductBelowMinimumEvent
func NewProductBelowMinimumEvent(product *Product) *ProductBelowMinimumEvent {
	return &ProductBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductBelowMinimum, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Code:            product.Code,
		Stock:           product.Stock,
		MinimumStock:    product.MinimumStock,
	}
}
