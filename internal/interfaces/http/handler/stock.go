package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/shopcore/backend/internal/application/stock"
)

// StockHandler handles stock location query endpoints
type StockHandler struct {
	BaseHandler
	queryService *stockapp.StockQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(queryService *stockapp.StockQueryService) *StockHandler {
	return &StockHandler{
		queryService: queryService,
	}
}

// ListByDepotRequest holds pagination for depot stock listings
type ListByDepotRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductTotalsResponse aggregates one product's stock across all depots
type ProductTotalsResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Pending    int64     `json:"pending"`
	Sellable   int64     `json:"sellable"`
	OutOfStock bool      `json:"out_of_stock"`
}

// ListByDepot returns the stock locations of one depot
func (h *StockHandler) ListByDepot(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depotID, err := uuid.Parse(c.Param("depotId"))
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	var req ListByDepotRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	locations, total, err := h.queryService.ListByDepot(c.Request.Context(), storeID, depotID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, locations, total, page, pageSize)
}

// GetAvailability returns one product's stock record in one depot
func (h *StockHandler) GetAvailability(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depotID, err := uuid.Parse(c.Param("depotId"))
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	location, err := h.queryService.GetAvailability(c.Request.Context(), storeID, depotID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, location)
}

// ListByProduct returns one product's stock locations across all depots
func (h *StockHandler) ListByProduct(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	locations, err := h.queryService.ListByProduct(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// GetProductTotals returns one product's aggregate stock figures
func (h *StockHandler) GetProductTotals(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	quantity, pending, outOfStock, err := h.queryService.ProductTotals(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProductTotalsResponse{
		ProductID:  productID,
		Quantity:   quantity,
		Pending:    pending,
		Sellable:   quantity - pending,
		OutOfStock: outOfStock,
	})
}

// RegisterRoutes registers stock query routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("/depots/:depotId/locations", h.ListByDepot)
		stock.GET("/depots/:depotId/products/:productId", h.GetAvailability)
		stock.GET("/products/:productId/locations", h.ListByProduct)
		stock.GET("/products/:productId/totals", h.GetProductTotals)
	}
}
