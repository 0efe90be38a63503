package stock

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// MovementKind determines the sign of the quantity deltas a document
// applies to its lines.
type MovementKind string

const (
	MovementInbound    MovementKind = "INBOUND"
	MovementOutbound   MovementKind = "OUTBOUND"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// IsValid checks whether the kind is a known value
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementInbound, MovementOutbound, MovementAdjustment:
		return true
	}
	return false
}

// CodePrefix returns the document-code prefix for the kind
func (k MovementKind) CodePrefix() string {
	switch k {
	case MovementInbound:
		return "IMP"
	case MovementOutbound:
		return "EXP"
	case MovementAdjustment:
		return "ADJ"
	}
	return "MOV"
}

// MovementStatus is the document lifecycle state
type MovementStatus string

const (
	MovementPending  MovementStatus = "PENDING"
	MovementComplete MovementStatus = "COMPLETE"
)

// MovementSource records what triggered the document
type MovementSource string

const (
	SourceManual         MovementSource = "MANUAL"
	SourceReconciliation MovementSource = "RECONCILIATION"
	SourceOrder          MovementSource = "ORDER"
)

// LineDirection encodes the effect of a line on an adjustment document.
// Inbound and outbound documents take their direction from the kind, so
// the field is only consulted for ADJUSTMENT.
type LineDirection string

const (
	DirectionIn  LineDirection = "IN"
	DirectionOut LineDirection = "OUT"
)

// MovementLine is one product row on a movement document
type MovementLine struct {
	shared.BaseEntity
	DocumentID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity        int64            `gorm:"not null"`
	Direction       LineDirection    `gorm:"type:varchar(8);not null;default:'IN'"`
	StockAtCreation int64            `gorm:"not null;default:0"`
	Price           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Note            string           `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (MovementLine) TableName() string {
	return "movement_lines"
}

// LineInput is the caller-supplied payload for one document line
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int64
	Direction LineDirection
	Price     *decimal.Decimal
	Note      string
}

// MovementDocument is the header of a stock-affecting event. Lines are
// replaceable only while PENDING; COMPLETE is terminal and freezes the
// document. The ledger is invoked exactly once, on the PENDING→COMPLETE
// transition.
type MovementDocument struct {
	shared.StoreAggregateRoot
	Code               string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_movement_store_code,priority:2"`
	Kind               MovementKind   `gorm:"type:varchar(16);not null"`
	Status             MovementStatus `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Source             MovementSource `gorm:"type:varchar(16);not null;default:'MANUAL'"`
	DepotID            uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestinationDepotID *uuid.UUID     `gorm:"type:uuid"`
	Note               string         `gorm:"type:varchar(500)"`
	CompletedBy        *uuid.UUID     `gorm:"type:uuid"`
	CompletedAt        *time.Time
	Lines              []MovementLine `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MovementDocument) TableName() string {
	return "movement_documents"
}

// NewMovementDocument creates a pending document with the given lines
func NewMovementDocument(storeID uuid.UUID, kind MovementKind, source MovementSource, depotID uuid.UUID, code string, createdBy uuid.UUID, lines []LineInput) (*MovementDocument, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "store ID is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown movement kind")
	}
	if depotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "depot ID is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "document code is required")
	}

	doc := &MovementDocument{
		StoreAggregateRoot: shared.NewStoreAggregateRootWithCreator(storeID, createdBy),
		Code:               code,
		Kind:               kind,
		Status:             MovementPending,
		Source:             source,
		DepotID:            depotID,
	}

	if err := doc.ReplaceLines(lines); err != nil {
		return nil, err
	}
	return doc, nil
}

// IsPending reports whether the document still accepts changes
func (d *MovementDocument) IsPending() bool {
	return d.Status == MovementPending
}

// SetNote updates the free-text note while pending
func (d *MovementDocument) SetNote(note string) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}
	d.Note = note
	d.touch()
	return nil
}

// SetDestinationDepot marks the document as a transfer while pending
func (d *MovementDocument) SetDestinationDepot(depotID uuid.UUID) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}
	if depotID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "destination depot ID is required")
	}
	d.DestinationDepotID = &depotID
	d.touch()
	return nil
}

// ReplaceLines fully supersedes the current line set. Only allowed while
// PENDING. Every quantity must be a positive integer; direction defaults
// from the document kind when unset.
func (d *MovementDocument) ReplaceLines(lines []LineInput) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "document requires at least one line")
	}

	replacement := make([]MovementLine, 0, len(lines))
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_INPUT", "line product ID is required")
		}
		if in.Quantity <= 0 {
			return shared.ErrInvalidQuantity
		}
		direction := in.Direction
		if direction == "" {
			direction = d.defaultDirection()
		}
		if direction != DirectionIn && direction != DirectionOut {
			return shared.NewDomainError("INVALID_INPUT", "unknown line direction")
		}
		replacement = append(replacement, MovementLine{
			BaseEntity: shared.NewBaseEntity(),
			DocumentID: d.ID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			Direction:  direction,
			Price:      in.Price,
			Note:       in.Note,
		})
	}

	d.Lines = replacement
	d.touch()
	return nil
}

// SortedLines returns the lines ordered by product ID. Completion walks
// lines in this stable order so overlapping documents acquire row locks
// consistently and cannot deadlock each other.
func (d *MovementDocument) SortedLines() []MovementLine {
	lines := make([]MovementLine, len(d.Lines))
	copy(lines, d.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// SignedDelta returns the ledger delta a line applies when the document
// completes: positive for inbound effect, negative for outbound.
func (d *MovementDocument) SignedDelta(line MovementLine) int64 {
	switch d.Kind {
	case MovementInbound:
		return line.Quantity
	case MovementOutbound:
		return -line.Quantity
	default:
		if line.Direction == DirectionOut {
			return -line.Quantity
		}
		return line.Quantity
	}
}

// SnapshotStock records the book quantity observed for a product at
// completion time, for audit.
func (d *MovementDocument) SnapshotStock(productID uuid.UUID, quantity int64) {
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			d.Lines[i].StockAtCreation = quantity
		}
	}
}

// Complete flips the document to its terminal state. Fails with
// INVALID_STATE when the document is not PENDING or the kind does not
// match the requested transition.
func (d *MovementDocument) Complete(expectedKind MovementKind, completedBy uuid.UUID, at time.Time) error {
	if !d.IsPending() {
		return shared.ErrInvalidState
	}
	if d.Kind != expectedKind {
		return shared.ErrInvalidState
	}

	d.Status = MovementComplete
	d.CompletedBy = &completedBy
	d.CompletedAt = &at
	d.touch()

	d.AddDomainEvent(NewMovementCompletedEvent(d))
	return nil
}

func (d *MovementDocument) defaultDirection() LineDirection {
	if d.Kind == MovementOutbound {
		return DirectionOut
	}
	return DirectionIn
}

func (d *MovementDocument) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
