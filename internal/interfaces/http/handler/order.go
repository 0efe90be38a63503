package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/shopcore/backend/internal/application/stock"
)

// OrderHandler handles order stock lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *stockapp.OrderService
	coordinator  *stockapp.OrderStockCoordinator
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *stockapp.OrderService, coordinator *stockapp.OrderStockCoordinator) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		coordinator:  coordinator,
	}
}

// OrderLineRequest is one product row on an incoming order
type OrderLineRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

// CreateOrderRequest registers an order with the stock engine
type CreateOrderRequest struct {
	Code    string             `json:"code" binding:"required,min=1,max=50"`
	DepotID string             `json:"depot_id" binding:"required,uuid"`
	Lines   []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListOrdersRequest holds the query parameters for listing orders
type ListOrdersRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=CREATED COMPLETED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create registers an order
func (h *OrderHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	lines := make([]stockapp.OrderLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, stockapp.OrderLineRequest{
			ProductID: uuid.MustParse(line.ProductID),
			Quantity:  line.Quantity,
			UnitPrice: priceFrom(line.UnitPrice),
		})
	}

	resp, err := h.orderService.Create(c.Request.Context(), storeID, stockapp.CreateOrderRequest{
		Code:      req.Code,
		DepotID:   uuid.MustParse(req.DepotID),
		Lines:     lines,
		CreatedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one order with its lines
func (h *OrderHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns orders matching the filter
func (h *OrderHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), storeID, stockapp.OrderListFilter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Reserve marks every line's stock as pending, all lines or none
func (h *OrderHandler) Reserve(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.coordinator.ReserveForOrder(c.Request.Context(), storeID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete deducts the reserved stock and writes the audit outbound document
func (h *OrderHandler) Complete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	if err := h.coordinator.CompleteOrderStock(c.Request.Context(), storeID, orderID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel releases the order's reserved stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.coordinator.ReleaseOrderStock(c.Request.Context(), storeID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.POST("/:id/reserve", h.Reserve)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
	}
}
