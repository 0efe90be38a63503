package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, storeID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "product with this code already exists")
	}

	mode := catalog.TrackingUnstrict
	if req.TrackingMode != "" {
		mode = catalog.TrackingMode(req.TrackingMode)
	}
	product, err := catalog.NewProduct(storeID, req.Code, req.Name, mode)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.ImportPrice != nil || req.SalePrice != nil {
		importPrice := product.ImportPrice
		salePrice := product.SalePrice
		if req.ImportPrice != nil {
			importPrice = *req.ImportPrice
		}
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetPrices(importPrice, salePrice); err != nil {
			return nil, err
		}
	}
	if req.MinimumStock > 0 {
		if err := product.SetMinimumStock(req.MinimumStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's editable fields
func (s *ProductService) Update(ctx context.Context, storeID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.TrackingMode != nil {
		if err := product.SetTrackingMode(catalog.TrackingMode(*req.TrackingMode)); err != nil {
			return nil, err
		}
	}
	if req.ImportPrice != nil || req.SalePrice != nil {
		importPrice := product.ImportPrice
		salePrice := product.SalePrice
		if req.ImportPrice != nil {
			importPrice = *req.ImportPrice
		}
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetPrices(importPrice, salePrice); err != nil {
			return nil, err
		}
	}
	if req.MinimumStock != nil {
		if err := product.SetMinimumStock(*req.MinimumStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by its ID
func (s *ProductService) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by its code
func (s *ProductService) GetByCode(ctx context.Context, storeID uuid.UUID, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products matching the filter with pagination
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
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
	if filter.Search != "" {
		query = query.Where("name", shared.OpLike, filter.Search)
	}

	products, err := s.productRepo.FindAllForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Delete soft-deletes a product
func (s *ProductService) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
