package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// GormMovementDocumentRepository implements MovementDocumentRepository
// using GORM. Lines always load and persist together with the header.
type GormMovementDocumentRepository struct {
	db *gorm.DB
}

// NewGormMovementDocumentRepository creates a new GormMovementDocumentRepository
func NewGormMovementDocumentRepository(db *gorm.DB) *GormMovementDocumentRepository {
	return &GormMovementDocumentRepository{db: db}
}

// FindByID finds a document with its lines
func (r *GormMovementDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.MovementDocument, error) {
	var doc stock.MovementDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByIDForStore finds a document by ID within a store
func (r *GormMovementDocumentRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*stock.MovementDocument, error) {
	var doc stock.MovementDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByCode finds a document by its code within a store
func (r *GormMovementDocumentRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*stock.MovementDocument, error) {
	var doc stock.MovementDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ? AND code = ?", storeID, code).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAllForStore lists documents for a store
func (r *GormMovementDocumentRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]stock.MovementDocument, error) {
	var docs []stock.MovementDocument
	q := applyListQuery(
		r.db.WithContext(ctx).Model(&stock.MovementDocument{}).
			Preload("Lines").
			Where("store_id = ?", storeID),
		query, MovementSortFields,
	)
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountForStore counts documents for a store
func (r *GormMovementDocumentRepository) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	var count int64
	q := applyConditions(
		r.db.WithContext(ctx).Model(&stock.MovementDocument{}).
			Where("store_id = ?", storeID),
		query, MovementSortFields,
	)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextSequence reserves the next per-day sequence number for a code prefix
func (r *GormMovementDocumentRepository) NextSequence(ctx context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), storeID, prefix, day)
}

// Save creates or updates a document and replaces its lines
func (r *GormMovementDocumentRepository) Save(ctx context.Context, doc *stock.MovementDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(doc).Error; err != nil {
			return err
		}
		return replaceMovementLines(tx, doc)
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormMovementDocumentRepository) SaveWithLock(ctx context.Context, doc *stock.MovementDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&stock.MovementDocument{}).
			Where("id = ? AND version = ?", doc.ID, doc.Version-1).
			Updates(map[string]interface{}{
				"status":               doc.Status,
				"note":                 doc.Note,
				"destination_depot_id": doc.DestinationDepotID,
				"completed_by":         doc.CompletedBy,
				"completed_at":         doc.CompletedAt,
				"version":              doc.Version,
				"updated_at":           doc.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceMovementLines(tx, doc)
	})
}

// Delete hard-deletes a document; its lines go with it via the cascade
func (r *GormMovementDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("document_id = ?", id).Delete(&stock.MovementLine{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&stock.MovementDocument{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func replaceMovementLines(tx *gorm.DB, doc *stock.MovementDocument) error {
	if err := tx.Unscoped().Where("document_id = ?", doc.ID).Delete(&stock.MovementLine{}).Error; err != nil {
		return err
	}
	if len(doc.Lines) == 0 {
		return nil
	}
	for i := range doc.Lines {
		doc.Lines[i].DocumentID = doc.ID
	}
	return tx.Create(&doc.Lines).Error
}

// Ensure GormMovementDocumentRepository implements MovementDocumentRepository
var _ stock.MovementDocumentRepository = (*GormMovementDocumentRepository)(nil)
