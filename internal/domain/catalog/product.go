package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// TrackingMode controls how strictly the ledger guards a product's stock
type TrackingMode string

const (
	// TrackingStrict blocks outbound and reservation once sellable stock is exhausted
	TrackingStrict TrackingMode = "STRICT"
	// TrackingUnstrict lets reservations exceed on-hand stock
	TrackingUnstrict TrackingMode = "UNSTRICT"
)

// IsValid checks whether the tracking mode is a known value
func (m TrackingMode) IsValid() bool {
	return m == TrackingStrict || m == TrackingUnstrict
}

// Product represents a product/SKU in the catalog.
// Stock, Pending and OutOfStock are read-path mirrors of the per-depot
// stock locations, kept in sync by an event handler; the stock locations
// stay authoritative.
type Product struct {
	shared.StoreAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_store_code,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	TrackingMode TrackingMode    `gorm:"type:varchar(20);not null;default:'UNSTRICT'"`
	ImportPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock        int64           `gorm:"not null;default:0"`
	Pending      int64           `gorm:"not null;default:0"`
	OutOfStock   bool            `gorm:"not null;default:false"`
	MinimumStock int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(storeID uuid.UUID, code, name string, mode TrackingMode) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown tracking mode")
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToUpper(strings.TrimSpace(code)),
		Name:               strings.TrimSpace(name),
		TrackingMode:       mode,
		ImportPrice:        decimal.Zero,
		SalePrice:          decimal.Zero,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with prices set
func NewProductWithPrices(storeID uuid.UUID, code, name string, mode TrackingMode, importPrice, salePrice decimal.Decimal) (*Product, error) {
	product, err := NewProduct(storeID, code, name, mode)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(importPrice, salePrice); err != nil {
		return nil, err
	}
	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices updates the import and sale prices
func (p *Product) SetPrices(importPrice, salePrice decimal.Decimal) error {
	if importPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "prices cannot be negative")
	}
	p.ImportPrice = importPrice
	p.SalePrice = salePrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetTrackingMode switches between strict and unstrict stock guarding
func (p *Product) SetTrackingMode(mode TrackingMode) error {
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown tracking mode")
	}
	p.TrackingMode = mode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetMinimumStock updates the low-stock alert threshold
func (p *Product) SetMinimumStock(minimum int64) error {
	if minimum < 0 {
		return shared.NewDomainError("INVALID_INPUT", "minimum stock cannot be negative")
	}
	p.MinimumStock = minimum
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsStrict reports whether the product blocks oversell
func (p *Product) IsStrict() bool {
	return p.TrackingMode == TrackingStrict
}

// SellableStock returns mirrored stock not yet claimed by reservations
func (p *Product) SellableStock() int64 {
	return p.Stock - p.Pending
}

// SyncStockMirror replaces the denormalized stock figures with the
// authoritative per-depot totals.
func (p *Product) SyncStockMirror(stock, pending int64, outOfStock bool) {
	p.Stock = stock
	p.Pending = pending
	p.OutOfStock = outOfStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// BelowMinimum reports whether mirrored stock has fallen under the threshold
func (p *Product) BelowMinimum() bool {
	return p.MinimumStock > 0 && p.Stock < p.MinimumStock
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_INPUT", "product code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "product name cannot exceed 200 characters")
	}
	return nil
}
