package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/shopcore/backend/internal/application/catalog"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProductRequest creates a new product
type CreateProductRequest struct {
	Code         string   `json:"code" binding:"required,min=1,max=50"`
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"max=1000"`
	TrackingMode string   `json:"tracking_mode" binding:"omitempty,oneof=STRICT UNSTRICT"`
	ImportPrice  *float64 `json:"import_price" binding:"omitempty,gte=0"`
	SalePrice    *float64 `json:"sale_price" binding:"omitempty,gte=0"`
	MinimumStock int64    `json:"minimum_stock" binding:"min=0"`
}

// UpdateProductRequest updates a product's editable fields
type UpdateProductRequest struct {
	Name         string   `json:"name" binding:"omitempty,min=1,max=200"`
	Description  string   `json:"description" binding:"max=1000"`
	TrackingMode *string  `json:"tracking_mode" binding:"omitempty,oneof=STRICT UNSTRICT"`
	ImportPrice  *float64 `json:"import_price" binding:"omitempty,gte=0"`
	SalePrice    *float64 `json:"sale_price" binding:"omitempty,gte=0"`
	MinimumStock *int64   `json:"minimum_stock" binding:"omitempty,min=0"`
}

// ListProductsRequest holds the query parameters for listing products
type ListProductsRequest struct {
	Search   string `form:"search" binding:"max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateProductRequest{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		TrackingMode: req.TrackingMode,
		MinimumStock: req.MinimumStock,
		ImportPrice:  optionalPrice(req.ImportPrice),
		SalePrice:    optionalPrice(req.SalePrice),
	}
	if userID, err := getUserID(c); err == nil {
		appReq.CreatedBy = &userID
	}

	resp, err := h.productService.Create(c.Request.Context(), storeID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update updates a product
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.UpdateProductRequest{
		Name:         req.Name,
		Description:  req.Description,
		TrackingMode: req.TrackingMode,
		MinimumStock: req.MinimumStock,
		ImportPrice:  optionalPrice(req.ImportPrice),
		SalePrice:    optionalPrice(req.SalePrice),
	}

	resp, err := h.productService.Update(c.Request.Context(), storeID, productID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns products matching the filter
func (h *ProductHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), storeID, catalogapp.ProductListFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
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
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store identification required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), storeID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}
}
