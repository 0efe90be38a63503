package stock

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// ReconciliationCodePrefix is the document-code prefix for physical counts
const ReconciliationCodePrefix = "CNT"

// ReconciliationStatus is the count-document lifecycle state
type ReconciliationStatus string

const (
	ReconciliationPending  ReconciliationStatus = "PENDING"
	ReconciliationComplete ReconciliationStatus = "COMPLETE"
)

// ReconciliationLine carries the physically counted amount for one product.
// CountedQuantity is an absolute figure, not a delta; Diff and MoneyDiff
// are filled in at completion once the book value is read under lock.
type ReconciliationLine struct {
	shared.BaseEntity
	DocumentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CountedQuantity int64           `gorm:"not null"`
	BookQuantity    int64           `gorm:"not null;default:0"`
	Diff            int64           `gorm:"not null;default:0"`
	MoneyDiff       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Note            string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ReconciliationLine) TableName() string {
	return "reconciliation_lines"
}

// CountInput is the caller-supplied payload for one counted product
type CountInput struct {
	ProductID       uuid.UUID
	CountedQuantity int64
	Note            string
}

// ReconciliationDocument is a physical-count document. On completion every
// line's difference against book quantity is pushed through the ledger and
// the counted value becomes the authoritative on-hand quantity.
type ReconciliationDocument struct {
	shared.StoreAggregateRoot
	Code           string               `gorm:"type:varchar(32);not null;uniqueIndex:idx_reconciliation_store_code,priority:2"`
	Status         ReconciliationStatus `gorm:"type:varchar(16);not null;default:'PENDING'"`
	DepotID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	Note           string               `gorm:"type:varchar(500)"`
	TotalStock     int64                `gorm:"not null;default:0"`
	TotalReal      int64                `gorm:"not null;default:0"`
	TotalMoneyDiff decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CompletedBy    *uuid.UUID           `gorm:"type:uuid"`
	CompletedAt    *time.Time
	Lines          []ReconciliationLine `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReconciliationDocument) TableName() string {
	return "reconciliation_documents"
}

// NewReconciliationDocument creates a pending count document
func NewReconciliationDocument(storeID, depotID uuid.UUID, code string, createdBy uuid.UUID, counts []CountInput) (*ReconciliationDocument, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot ID is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "document code is required")
	}

	doc := &ReconciliationDocument{
		StoreAggregateRoot: shared.NewStoreAggregateRootWithCreator(storeID, createdBy),
		Code:               code,
		Status:             ReconciliationPending,
		DepotID:            depotID,
	}

	if err := doc.ReplaceLines(counts); err != nil {
		return nil, err
	}
	return doc, nil
}

// IsPending reports whether the document still accepts changes
func (d *ReconciliationDocument) IsPending() bool {
	return d.Status == ReconciliationPending
}

// ReplaceLines fully supersedes the current count set. Only allowed while
// PENDING; counted quantities must not be negative.
func (d *ReconciliationDocument) ReplaceLines(counts []CountInput) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}
	if len(counts) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "document requires at least one line")
	}

	replacement := make([]ReconciliationLine, 0, len(counts))
	for _, in := range counts {
		if in.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_INPUT", "line product ID is required")
		}
		if in.CountedQuantity < 0 {
			return shared.ErrInvalidQuantity
		}
		replacement = append(replacement, ReconciliationLine{
			BaseEntity:      shared.NewBaseEntity(),
			DocumentID:      d.ID,
			ProductID:       in.ProductID,
			CountedQuantity: in.CountedQuantity,
			Note:            in.Note,
		})
	}

	d.Lines = replacement
	d.touch()
	return nil
}

// SortedLines returns the lines ordered by product ID for stable lock
// acquisition during completion.
func (d *ReconciliationDocument) SortedLines() []ReconciliationLine {
	lines := make([]ReconciliationLine, len(d.Lines))
	copy(lines, d.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// RecordResult stores the reconciliation outcome for one product: the book
// quantity read under lock, the applied difference, and its money value.
func (d *ReconciliationDocument) RecordResult(productID uuid.UUID, bookQuantity, diff int64, moneyDiff decimal.Decimal) {
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			d.Lines[i].BookQuantity = bookQuantity
			d.Lines[i].Diff = diff
			d.Lines[i].MoneyDiff = moneyDiff
		}
	}
}

// Complete recalculates the aggregate totals and flips the document to its
// terminal state. Fails with INVALID_STATE when not PENDING.
func (d *ReconciliationDocument) Complete(completedBy uuid.UUID, at time.Time) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}

	d.recalculateTotals()
	d.Status = ReconciliationComplete
	d.CompletedBy = &completedBy
	d.CompletedAt = &at
	d.touch()

	d.AddDomainEvent(NewReconciliationCompletedEvent(d))
	return nil
}

// recalculateTotals sums book quantity, counted quantity and money
// difference across all lines. Reporting figures only.
func (d *ReconciliationDocument) recalculateTotals() {
	var totalStock, totalReal int64
	totalMoney := decimal.Zero
	for _, line := range d.Lines {
		totalStock += line.BookQuantity
		totalReal += line.CountedQuantity
		totalMoney = totalMoney.Add(line.MoneyDiff)
	}
	d.TotalStock = totalStock
	d.TotalReal = totalReal
	d.TotalMoneyDiff = totalMoney
}

func (d *ReconciliationDocument) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
