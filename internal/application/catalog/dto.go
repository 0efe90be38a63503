package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/catalog"
)

// CreateProductRequest creates a new product
type CreateProductRequest struct {
	Code         string
	Name         string
	Description  string
	TrackingMode string
	ImportPrice  *decimal.Decimal
	SalePrice    *decimal.Decimal
	MinimumStock int64
	CreatedBy    *uuid.UUID
}

// UpdateProductRequest updates a product's editable fields
type UpdateProductRequest struct {
	Name         string
	Description  string
	TrackingMode *string
	ImportPrice  *decimal.Decimal
	SalePrice    *decimal.Decimal
	MinimumStock *int64
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// ProductResponse is the read model of a product
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	TrackingMode string          `json:"tracking_mode"`
	ImportPrice  decimal.Decimal `json:"import_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Stock        int64           `json:"stock"`
	Pending      int64           `json:"pending"`
	Sellable     int64           `json:"sellable"`
	OutOfStock   bool            `json:"out_of_stock"`
	MinimumStock int64           `json:"minimum_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its read model
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		Code:         product.Code,
		Name:         product.Name,
		Description:  product.Description,
		TrackingMode: string(product.TrackingMode),
		ImportPrice:  product.ImportPrice,
		SalePrice:    product.SalePrice,
		Stock:        product.Stock,
		Pending:      product.Pending,
		Sellable:     product.SellableStock(),
		OutOfStock:   product.OutOfStock,
		MinimumStock: product.MinimumStock,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// CreateDepotRequest creates a new depot
type CreateDepotRequest struct {
	Name      string
	Address   string
	IsDefault bool
}

// UpdateDepotRequest updates a depot's details
type UpdateDepotRequest struct {
	Name    string
	Address string
}

// DepotResponse is the read model of a depot
type DepotResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDepotResponse maps a depot aggregate to its read model
func ToDepotResponse(depot *catalog.Depot) DepotResponse {
	return DepotResponse{
		ID:        depot.ID,
		Name:      depot.Name,
		Address:   depot.Address,
		IsDefault: depot.IsDefault,
		CreatedAt: depot.CreatedAt,
	}
}
