package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/shopcore/backend/internal/application/catalog"
)

// DepotHandler handles depot API endpoints
type DepotHandler struct {
	BaseHandler
	depotService *catalogapp.DepotService
}

// NewDepotHandler creates a new DepotHandler
func NewDepotHandler(depotService *catalogapp.DepotService) *DepotHandler {
	return &DepotHandler{
		depotService: depotService,
	}
}

// CreateDepotRequest creates a new depot
type CreateDepotRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Address   string `json:"address" binding:"max=500"`
	IsDefault bool   `json:"is_default"`
}

// UpdateDepotRequest updates a depot's details
type UpdateDepotRequest struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// Create creates a new depot
func (h *DepotHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req CreateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.depotService.Create(c.Request.Context(), storeID, catalogapp.CreateDepotRequest{
		Name:      req.Name,
		Address:   req.Address,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update updates a depot
func (h *DepotHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	var req UpdateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.depotService.Update(c.Request.Context(), storeID, depotID, catalogapp.UpdateDepotRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns one depot
func (h *DepotHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	resp, err := h.depotService.GetByID(c.Request.Context(), storeID, depotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all depots of the store
func (h *DepotHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depots, err := h.depotService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, depots)
}

// Delete removes a depot
func (h *DepotHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	depotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid depot ID")
		return
	}

	if err := h.depotService.Delete(c.Request.Context(), storeID, depotID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers depot routes
func (h *DepotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	depots := rg.Group("/depots")
	{
		depots.POST("", h.Create)
		depots.GET("", h.List)
		depots.GET("/:id", h.GetByID)
		depots.PUT("/:id", h.Update)
		depots.DELETE("/:id", h.Delete)
	}
}
