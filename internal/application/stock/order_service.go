package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
)

// OrderLineRequest is one product row on an incoming order
type OrderLineRequest struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateOrderRequest registers an order with the stock engine. The code is
// the order system's own number, not generated here.
type CreateOrderRequest struct {
	Code      string
	DepotID   uuid.UUID
	Lines     []OrderLineRequest
	CreatedBy uuid.UUID
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Status   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// OrderLineResponse is the read model of one order line
type OrderLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse is the read model of an order as the stock engine sees it
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	Status        string              `json:"status"`
	DepotID       uuid.UUID           `json:"depot_id"`
	StockReserved bool                `json:"stock_reserved"`
	CompletedBy   *uuid.UUID          `json:"completed_by,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Lines         []OrderLineResponse `json:"lines"`
}

// ToOrderResponse maps an order aggregate to its read model
func ToOrderResponse(ord *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(ord.Lines))
	for _, line := range ord.Lines {
		lines = append(lines, OrderLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return OrderResponse{
		ID:            ord.ID,
		Code:          ord.Code,
		Status:        string(ord.Status),
		DepotID:       ord.DepotID,
		StockReserved: ord.StockReserved,
		CompletedBy:   ord.CompletedBy,
		CompletedAt:   ord.CompletedAt,
		CreatedAt:     ord.CreatedAt,
		UpdatedAt:     ord.UpdatedAt,
		Lines:         lines,
	}
}

// OrderService registers orders and reads them back. Stock-side lifecycle
// hooks (reserve, complete, release) live on OrderStockCoordinator.
type OrderService struct {
	orderRepo order.Repository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// Create registers a new order in CREATED state
func (s *OrderService) Create(ctx context.Context, storeID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	lines := make([]order.LineInput, 0, len(req.Lines))
	for _, in := range req.Lines {
		lines = append(lines, order.LineInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}

	ord, err := order.NewOrder(storeID, req.DepotID, req.Code, lines)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != uuid.Nil {
		ord.SetCreatedBy(req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, ord); err != nil {
		return nil, err
	}

	response := ToOrderResponse(ord)
	return &response, nil
}

// GetByID returns an order with its lines
func (s *OrderService) GetByID(ctx context.Context, storeID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(ord)
	return &response, nil
}

// List returns orders for a store
func (s *OrderService) List(ctx context.Context, storeID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	query := shared.DefaultListQuery()
	if filter.Page > 0 {
		query.Page = filter.Page
	}
	if filter.PageSize > 0 {
		query.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		direction := shared.SortDesc
		if filter.OrderDir == "asc" {
			direction = shared.SortAsc
		}
		query = query.OrderBy(filter.OrderBy, direction)
	}
	if filter.Status != "" {
		query = query.Where("status", shared.OpEq, filter.Status)
	}

	orders, err := s.orderRepo.FindAllForStore(ctx, storeID, query)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, nil
}
