package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/shopcore/backend/internal/application/stock"
)

// ReconciliationHandler handles physical-count document API endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *stockapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *stockapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// CountLineRequest is one counted product on a reconciliation
type CountLineRequest struct {
	ProductID       string `json:"product_id" binding:"required,uuid"`
	CountedQuantity int64  `json:"counted_quantity" binding:"min=0"`
	Note            string `json:"note" binding:"max=500"`
}

// CreateReconciliationRequest creates a pending physical-count document
type CreateReconciliationRequest struct {
	DepotID string             `json:"depot_id" binding:"required,uuid"`
	Note    string             `json:"note" binding:"max=500"`
	Lines   []CountLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListReconciliationsRequest holds the query parameters for listing counts
type ListReconciliationsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING COMPLETE"`
	DepotID  string `form:"depot_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create creates a pending reconciliation document
func (h *ReconciliationHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	lines := make([]stockapp.CountLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, stockapp.CountLineRequest{
			ProductID:       uuid.MustParse(line.ProductID),
			CountedQuantity: line.CountedQuantity,
			Note:            line.Note,
		})
	}

	resp, err := h.reconciliationService.Create(c.Request.Context(), storeID, stockapp.CreateReconciliationRequest{
		DepotID:   uuid.MustParse(req.DepotID),
		Note:      req.Note,
		Lines:     lines,
		CreatedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Complete confirms a pending count, adjusting stock to the counted figures
func (h *ReconciliationHandler) Complete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	resp, err := h.reconciliationService.Complete(c.Request.Context(), storeID, docID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns one reconciliation document with its lines
func (h *ReconciliationHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.reconciliationService.GetByID(c.Request.Context(), storeID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns reconciliation documents matching the filter
func (h *ReconciliationHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req ListReconciliationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := stockapp.ReconciliationListFilter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	if req.DepotID != "" {
		depotID := uuid.MustParse(req.DepotID)
		filter.DepotID = &depotID
	}

	docs, total, err := h.reconciliationService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, docs, total, page, pageSize)
}

// RegisterRoutes registers reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reconciliations := rg.Group("/stock/reconciliations")
	{
		reconciliations.POST("", h.Create)
		reconciliations.GET("", h.List)
		reconciliations.GET("/:id", h.GetByID)
		reconciliations.POST("/:id/complete", h.Complete)
	}
}
