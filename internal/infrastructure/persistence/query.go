package persistence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/shared"
)

// applyListQuery applies conditions, ordering and pagination from a typed
// list query. Field names are checked against the entity's allow-list;
// unknown fields are dropped rather than reaching SQL.
func applyListQuery(query *gorm.DB, q shared.ListQuery, allowedFields map[string]bool) *gorm.DB {
	query = applyConditions(query, q, allowedFields)

	orderField := "created_at"
	orderDir := "DESC"
	if len(q.Sort) > 0 {
		orderField = ValidateSortField(q.Sort[0].Field, allowedFields, "created_at")
		orderDir = ValidateSortOrder(string(q.Sort[0].Direction))
	}
	query = query.Order(orderField + " " + orderDir)

	if q.Page > 0 && q.PageSize > 0 {
		query = query.Offset(q.Offset()).Limit(q.Limit())
	}
	return query
}

// applyConditions applies the query's filter predicates without ordering
// or pagination, for use by count queries.
func applyConditions(query *gorm.DB, q shared.ListQuery, allowedFields map[string]bool) *gorm.DB {
	for _, cond := range q.Conditions {
		if !allowedFields[cond.Field] {
			continue
		}
		switch cond.Op {
		case shared.OpEq:
			query = query.Where(cond.Field+" = ?", cond.Value)
		case shared.OpNeq:
			query = query.Where(cond.Field+" <> ?", cond.Value)
		case shared.OpGte:
			query = query.Where(cond.Field+" >= ?", cond.Value)
		case shared.OpLte:
			query = query.Where(cond.Field+" <= ?", cond.Value)
		case shared.OpIn:
			query = query.Where(cond.Field+" IN ?", cond.Value)
		case shared.OpLike:
			query = query.Where(cond.Field+" LIKE ?", "%"+toLikePattern(cond.Value)+"%")
		}
	}
	return query
}

func toLikePattern(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// documentSequence backs per-store, per-day document code generation
type documentSequence struct {
	StoreID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix  string    `gorm:"type:varchar(8);primaryKey"`
	Day     time.Time `gorm:"type:date;primaryKey"`
	Value   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (documentSequence) TableName() string {
	return "document_sequences"
}

// nextDocumentSequence reserves the next sequence number for a (store,
// prefix, day) triple. The upsert runs inside the caller's transaction so
// concurrent writers serialize on the sequence row and codes stay unique.
func nextDocumentSequence(db *gorm.DB, storeID uuid.UUID, prefix string, day time.Time) (int, error) {
	var value int
	err := db.Raw(
		`INSERT INTO document_sequences (store_id, prefix, day, value) VALUES (?, ?, ?, 1)
		 ON CONFLICT (store_id, prefix, day) DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`,
		storeID, prefix, day.Format("2006-01-02"),
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
