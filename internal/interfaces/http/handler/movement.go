package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/shopcore/backend/internal/application/stock"
	"github.com/shopcore/backend/internal/domain/stock"
)

// MovementHandler handles movement document API endpoints
type MovementHandler struct {
	BaseHandler
	movementService *stockapp.MovementDocumentService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *stockapp.MovementDocumentService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
	}
}

// MovementLineRequest is one line of a movement document
type MovementLineRequest struct {
	ProductID string   `json:"product_id" binding:"required,uuid"`
	Quantity  int64    `json:"quantity" binding:"required"`
	Direction string   `json:"direction" binding:"omitempty,oneof=IN OUT"`
	Price     *float64 `json:"price"`
	Note      string   `json:"note" binding:"max=500"`
}

// CreateMovementRequest creates a pending movement document
type CreateMovementRequest struct {
	Kind               string                `json:"kind" binding:"required,oneof=INBOUND OUTBOUND ADJUSTMENT"`
	DepotID            string                `json:"depot_id" binding:"required,uuid"`
	DestinationDepotID *string               `json:"destination_depot_id" binding:"omitempty,uuid"`
	Note               string                `json:"note" binding:"max=500"`
	Lines              []MovementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateMovementRequest replaces the line set of a pending document
type UpdateMovementRequest struct {
	Note  *string               `json:"note" binding:"omitempty,max=500"`
	Lines []MovementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CompleteMovementRequest confirms a pending document
type CompleteMovementRequest struct {
	Kind string `json:"kind" binding:"required,oneof=INBOUND OUTBOUND ADJUSTMENT"`
}

// ListMovementsRequest holds the query parameters for listing documents
type ListMovementsRequest struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=INBOUND OUTBOUND ADJUSTMENT"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING COMPLETE"`
	DepotID  string `form:"depot_id" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty"`
	To       string `form:"to" binding:"omitempty"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func toMovementLines(lines []MovementLineRequest) []stockapp.MovementLineRequest {
	out := make([]stockapp.MovementLineRequest, 0, len(lines))
	for _, line := range lines {
		appLine := stockapp.MovementLineRequest{
			ProductID: uuid.MustParse(line.ProductID),
			Quantity:  line.Quantity,
			Direction: line.Direction,
			Note:      line.Note,
			Price:     optionalPrice(line.Price),
		}
		out = append(out, appLine)
	}
	return out
}

// Create creates a pending movement document
func (h *MovementHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	appReq := stockapp.CreateMovementRequest{
		Kind:      req.Kind,
		DepotID:   uuid.MustParse(req.DepotID),
		Note:      req.Note,
		Lines:     toMovementLines(req.Lines),
		CreatedBy: userID,
	}
	if req.DestinationDepotID != nil {
		destID := uuid.MustParse(*req.DestinationDepotID)
		appReq.DestinationDepotID = &destID
	}

	resp, err := h.movementService.Create(c.Request.Context(), storeID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update replaces the lines of a pending document
func (h *MovementHandler) Update(c *gin.Context) {
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

	var req UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := stockapp.UpdateMovementRequest{
		Note:  req.Note,
		Lines: toMovementLines(req.Lines),
	}

	resp, err := h.movementService.Update(c.Request.Context(), storeID, docID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete confirms a pending document and applies its stock deltas
func (h *MovementHandler) Complete(c *gin.Context) {
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

	var req CompleteMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identification required")
		return
	}

	resp, err := h.movementService.Complete(c.Request.Context(), storeID, docID, stock.MovementKind(req.Kind), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a pending document
func (h *MovementHandler) Delete(c *gin.Context) {
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

	if err := h.movementService.Delete(c.Request.Context(), storeID, docID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID returns one movement document with its lines
func (h *MovementHandler) GetByID(c *gin.Context) {
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

	resp, err := h.movementService.GetByID(c.Request.Context(), storeID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns movement documents matching the filter
func (h *MovementHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req ListMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := stockapp.MovementListFilter{
		Kind:     req.Kind,
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
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' timestamp, expected RFC3339")
			return
		}
		filter.To = &to
	}

	docs, total, err := h.movementService.List(c.Request.Context(), storeID, filter)
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

// RegisterRoutes registers movement document routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/stock/movements")
	{
		movements.POST("", h.Create)
		movements.GET("", h.List)
		movements.GET("/:id", h.GetByID)
		movements.PUT("/:id", h.Update)
		movements.DELETE("/:id", h.Delete)
		movements.POST("/:id/complete", h.Complete)
	}
}
