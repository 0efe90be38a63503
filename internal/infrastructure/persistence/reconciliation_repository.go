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

// GormReconciliationRepository implements ReconciliationRepository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByID finds a count document with its lines
func (r *GormReconciliationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ReconciliationDocument, error) {
	var doc stock.ReconciliationDocument
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

// FindByIDForStore finds a count document by ID within a store
func (r *GormReconciliationRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*stock.ReconciliationDocument, error) {
	var doc stock.ReconciliationDocument
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

// FindAllForStore lists count documents for a store
func (r *GormReconciliationRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) ([]stock.ReconciliationDocument, error) {
	var docs []stock.ReconciliationDocument
	q := applyListQuery(
		r.db.WithContext(ctx).Model(&stock.ReconciliationDocument{}).
			Preload("Lines").
			Where("store_id = ?", storeID),
		query, ReconciliationSortFields,
	)
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountForStore counts count documents for a store
func (r *GormReconciliationRepository) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	var count int64
	q := applyConditions(
		r.db.WithContext(ctx).Model(&stock.ReconciliationDocument{}).
			Where("store_id = ?", storeID),
		query, ReconciliationSortFields,
	)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextSequence reserves the next per-day sequence number for count codes
func (r *GormReconciliationRepository) NextSequence(ctx context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), storeID, prefix, day)
}

// Save creates or updates a count document and replaces its lines
func (r *GormReconciliationRepository) Save(ctx context.Context, doc *stock.ReconciliationDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(doc).Error; err != nil {
			return err
		}
		return replaceReconciliationLines(tx, doc)
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReconciliationRepository) SaveWithLock(ctx context.Context, doc *stock.ReconciliationDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&stock.ReconciliationDocument{}).
			Where("id = ? AND version = ?", doc.ID, doc.Version-1).
			Updates(map[string]interface{}{
				"status":           doc.Status,
				"note":             doc.Note,
				"total_stock":      doc.TotalStock,
				"total_real":       doc.TotalReal,
				"total_money_diff": doc.TotalMoneyDiff,
				"completed_by":     doc.CompletedBy,
				"completed_at":     doc.CompletedAt,
				"version":          doc.Version,
				"updated_at":       doc.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceReconciliationLines(tx, doc)
	})
}

// Delete hard-deletes a count document and its lines
func (r *GormReconciliationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("document_id = ?", id).Delete(&stock.ReconciliationLine{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&stock.ReconciliationDocument{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func replaceReconciliationLines(tx *gorm.DB, doc *stock.ReconciliationDocument) error {
	if err := tx.Unscoped().Where("document_id = ?", doc.ID).Delete(&stock.ReconciliationLine{}).Error; err != nil {
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

// Ensure GormReconciliationRepository implements ReconciliationRepository
var _ stock.ReconciliationRepository = (*GormReconciliationRepository)(nil)
