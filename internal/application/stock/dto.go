package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/stock"
)

// MovementLineRequest is one line of a movement document request
type MovementLineRequest struct {
	ProductID uuid.UUID
	Quantity  int64
	Direction string // "IN"/"OUT", adjustment documents only
	Price     *decimal.Decimal
	Note      string
}

// CreateMovementRequest creates a pending movement document
type CreateMovementRequest struct {
	Kind               string
	DepotID            uuid.UUID
	DestinationDepotID *uuid.UUID
	Note               string
	Lines              []MovementLineRequest
	CreatedBy          uuid.UUID
}

// UpdateMovementRequest replaces the line set of a pending document
type UpdateMovementRequest struct {
	Note  *string
	Lines []MovementLineRequest
}

// MovementListFilter narrows movement document listings
type MovementListFilter struct {
	Kind     string
	Status   string
	DepotID  *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// MovementLineResponse is the read model of one document line
type MovementLineResponse struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	Quantity        int64            `json:"quantity"`
	Direction       string           `json:"direction"`
	StockAtCreation int64            `json:"stock_at_creation"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Note            string           `json:"note,omitempty"`
}

// MovementDocumentResponse is the read model of a movement document
type MovementDocumentResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Code               string                 `json:"code"`
	Kind               string                 `json:"kind"`
	Status             string                 `json:"status"`
	Source             string                 `json:"source"`
	DepotID            uuid.UUID              `json:"depot_id"`
	DestinationDepotID *uuid.UUID             `json:"destination_depot_id,omitempty"`
	Note               string                 `json:"note,omitempty"`
	CreatedBy          *uuid.UUID             `json:"created_by,omitempty"`
	CompletedBy        *uuid.UUID             `json:"completed_by,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Lines              []MovementLineResponse `json:"lines"`
}

// ToMovementDocumentResponse maps a document aggregate to its read model
func ToMovementDocumentResponse(doc *stock.MovementDocument) MovementDocumentResponse {
	lines := make([]MovementLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, MovementLineResponse{
			ID:              line.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Direction:       string(line.Direction),
			StockAtCreation: line.StockAtCreation,
			Price:           line.Price,
			Note:            line.Note,
		})
	}
	return MovementDocumentResponse{
		ID:                 doc.ID,
		Code:               doc.Code,
		Kind:               string(doc.Kind),
		Status:             string(doc.Status),
		Source:             string(doc.Source),
		DepotID:            doc.DepotID,
		DestinationDepotID: doc.DestinationDepotID,
		Note:               doc.Note,
		CreatedBy:          doc.GetCreatedBy(),
		CompletedBy:        doc.CompletedBy,
		CompletedAt:        doc.CompletedAt,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
		Lines:              lines,
	}
}

// CountLineRequest is one counted product on a reconciliation request
type CountLineRequest struct {
	ProductID       uuid.UUID
	CountedQuantity int64
	Note            string
}

// CreateReconciliationRequest creates a pending physical-count document
type CreateReconciliationRequest struct {
	DepotID   uuid.UUID
	Note      string
	Lines     []CountLineRequest
	CreatedBy uuid.UUID
}

// ReconciliationListFilter narrows reconciliation listings
type ReconciliationListFilter struct {
	Status   string
	DepotID  *uuid.UUID
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// ReconciliationLineResponse is the read model of one counted line
type ReconciliationLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	CountedQuantity int64           `json:"counted_quantity"`
	BookQuantity    int64           `json:"book_quantity"`
	Diff            int64           `json:"diff"`
	MoneyDiff       decimal.Decimal `json:"money_diff"`
	Note            string          `json:"note,omitempty"`
}

// ReconciliationResponse is the read model of a reconciliation document
type ReconciliationResponse struct {
	ID             uuid.UUID                    `json:"id"`
	Code           string                       `json:"code"`
	Status         string                       `json:"status"`
	DepotID        uuid.UUID                    `json:"depot_id"`
	Note           string                       `json:"note,omitempty"`
	TotalStock     int64                        `json:"total_stock"`
	TotalReal      int64                        `json:"total_real"`
	TotalMoneyDiff decimal.Decimal              `json:"total_money_diff"`
	CompletedBy    *uuid.UUID                   `json:"completed_by,omitempty"`
	CompletedAt    *time.Time                   `json:"completed_at,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
	Lines          []ReconciliationLineResponse `json:"lines"`
}

// ToReconciliationResponse maps a count document to its read model
func ToReconciliationResponse(doc *stock.ReconciliationDocument) ReconciliationResponse {
	lines := make([]ReconciliationLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, ReconciliationLineResponse{
			ID:              line.ID,
			ProductID:       line.ProductID,
			CountedQuantity: line.CountedQuantity,
			BookQuantity:    line.BookQuantity,
			Diff:            line.Diff,
			MoneyDiff:       line.MoneyDiff,
			Note:            line.Note,
		})
	}
	return ReconciliationResponse{
		ID:             doc.ID,
		Code:           doc.Code,
		Status:         string(doc.Status),
		DepotID:        doc.DepotID,
		Note:           doc.Note,
		TotalStock:     doc.TotalStock,
		TotalReal:      doc.TotalReal,
		TotalMoneyDiff: doc.TotalMoneyDiff,
		CompletedBy:    doc.CompletedBy,
		CompletedAt:    doc.CompletedAt,
		CreatedAt:      doc.CreatedAt,
		Lines:          lines,
	}
}

// StockLocationResponse is the read model of a stock location
type StockLocationResponse struct {
	ID           uuid.UUID `json:"id"`
	DepotID      uuid.UUID `json:"depot_id"`
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int64     `json:"quantity"`
	Pending      int64     `json:"pending"`
	Sellable     int64     `json:"sellable"`
	OutOfStock   bool      `json:"out_of_stock"`
	MinimumStock int64     `json:"minimum_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToStockLocationResponse maps a stock location to its read model
func ToStockLocationResponse(location *stock.StockLocation) StockLocationResponse {
	return StockLocationResponse{
		ID:           location.ID,
		DepotID:      location.DepotID,
		ProductID:    location.ProductID,
		Quantity:     location.Quantity,
		Pending:      location.Pending,
		Sellable:     location.Sellable(),
		OutOfStock:   location.OutOfStock,
		MinimumStock: location.MinimumStock,
		UpdatedAt:    location.UpdatedAt,
	}
}
