package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, query ListQuery) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, query ListQuery) (int64, error)
}

// StoreRepository is a repository scoped to a store
type StoreRepository[T any] interface {
	Repository[T]
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*T, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, query ListQuery) ([]T, error)
}

// FilterOp enumerates the supported comparison operators for list conditions
type FilterOp string

const (
	OpEq   FilterOp = "eq"
	OpNeq  FilterOp = "neq"
	OpGte  FilterOp = "gte"
	OpLte  FilterOp = "lte"
	OpIn   FilterOp = "in"
	OpLike FilterOp = "like"
)

// Condition is a single typed filter predicate. Field names are validated
// against a per-entity allow-list in the persistence layer before they
// reach SQL.
type Condition struct {
	Field string
	Op    FilterOp
	Value interface{}
}

// SortDirection is the direction of a sort field
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortField is a single typed ordering term
type SortField struct {
	Field     string
	Direction SortDirection
}

// ListQuery represents query options for list operations. Filters and
// sorts are explicit descriptors rather than free-form maps so the
// persistence layer can validate every field before building SQL.
type ListQuery struct {
	Page       int
	PageSize   int
	Sort       []SortField
	Conditions []Condition
	Search     string
}

// DefaultListQuery returns a query with default pagination and ordering
func DefaultListQuery() ListQuery {
	return ListQuery{
		Page:     1,
		PageSize: 20,
		Sort:     []SortField{{Field: "created_at", Direction: SortDesc}},
	}
}

// Where appends a condition and returns the query for chaining
func (q ListQuery) Where(field string, op FilterOp, value interface{}) ListQuery {
	q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})
	return q
}

// OrderBy replaces the sort descriptor and returns the query for chaining
func (q ListQuery) OrderBy(field string, direction SortDirection) ListQuery {
	q.Sort = []SortField{{Field: field, Direction: direction}}
	return q
}

// Offset returns the row offset implied by Page/PageSize
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the effective page size
func (q ListQuery) Limit() int {
	if q.PageSize < 1 {
		return 20
	}
	return q.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize < 1 {
		pageSize = 20
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
