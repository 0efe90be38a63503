package stock

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// StockQueryService serves the read path over stock locations: depot
// listings, per-product availability and cross-depot views. It never
// mutates stock.
type StockQueryService struct {
	locationRepo stock.StockLocationRepository
}

// NewStockQueryService creates a new StockQueryService
func NewStockQueryService(locationRepo stock.StockLocationRepository) *StockQueryService {
	return &StockQueryService{locationRepo: locationRepo}
}

// ListByDepot lists stock records in a depot with pagination
func (s *StockQueryService) ListByDepot(ctx context.Context, storeID, depotID uuid.UUID, page, pageSize int) ([]StockLocationResponse, int64, error) {
	query := shared.DefaultListQuery()
	if page > 0 {
		query.Page = page
	}
	if pageSize > 0 {
		query.PageSize = pageSize
	}

	locations, err := s.locationRepo.FindAllForDepot(ctx, storeID, depotID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locationRepo.CountForDepot(ctx, storeID, depotID, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockLocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToStockLocationResponse(&locations[i]))
	}
	return responses, total, nil
}

// GetAvailability returns the stock record for a (depot, product) pair.
// Fails with PRODUCT_NOT_IN_DEPOT when the product was never stocked there.
func (s *StockQueryService) GetAvailability(ctx context.Context, storeID, depotID, productID uuid.UUID) (*StockLocationResponse, error) {
	location, err := s.locationRepo.FindByDepotAndProduct(ctx, storeID, depotID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockLocationResponse(location)
	return &response, nil
}

// ListByProduct lists a product's stock records across all depots
func (s *StockQueryService) ListByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]StockLocationResponse, error) {
	locations, err := s.locationRepo.FindAllForProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]StockLocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToStockLocationResponse(&locations[i]))
	}
	return responses, nil
}

// ProductTotals aggregates a product's quantity and pending across depots,
// feeding the catalog mirror sync.
func (s *StockQueryService) ProductTotals(ctx context.Context, storeID, productID uuid.UUID) (quantity, pending int64, outOfStock bool, err error) {
	locations, err := s.locationRepo.FindAllForProduct(ctx, storeID, productID)
	if err != nil {
		return 0, 0, false, err
	}
	for _, location := range locations {
		quantity += location.Quantity
		pending += location.Pending
	}
	return quantity, pending, quantity == 0, nil
}
