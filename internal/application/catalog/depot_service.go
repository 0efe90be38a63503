package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
)

// DepotService handles depot management
type DepotService struct {
	depotRepo catalog.DepotRepository
}

// NewDepotService creates a new DepotService
func NewDepotService(depotRepo catalog.DepotRepository) *DepotService {
	return &DepotService{depotRepo: depotRepo}
}

// Create creates a new depot
func (s *DepotService) Create(ctx context.Context, storeID uuid.UUID, req CreateDepotRequest) (*DepotResponse, error) {
	depot, err := catalog.NewDepot(storeID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if req.IsDefault {
		depot.MarkDefault()
	}
	if err := s.depotRepo.Save(ctx, depot); err != nil {
		return nil, err
	}
	response := ToDepotResponse(depot)
	return &response, nil
}

// Update updates a depot's details
func (s *DepotService) Update(ctx context.Context, storeID, depotID uuid.UUID, req UpdateDepotRequest) (*DepotResponse, error) {
	depot, err := s.depotRepo.FindByIDForStore(ctx, storeID, depotID)
	if err != nil {
		return nil, err
	}
	if err := depot.Update(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.depotRepo.Save(ctx, depot); err != nil {
		return nil, err
	}
	response := ToDepotResponse(depot)
	return &response, nil
}

// GetByID retrieves a depot by its ID
func (s *DepotService) GetByID(ctx context.Context, storeID, depotID uuid.UUID) (*DepotResponse, error) {
	depot, err := s.depotRepo.FindByIDForStore(ctx, storeID, depotID)
	if err != nil {
		return nil, err
	}
	response := ToDepotResponse(depot)
	return &response, nil
}

// List retrieves all depots for a store
func (s *DepotService) List(ctx context.Context, storeID uuid.UUID) ([]DepotResponse, error) {
	depots, err := s.depotRepo.FindAllForStore(ctx, storeID, shared.DefaultListQuery())
	if err != nil {
		return nil, err
	}
	responses := make([]DepotResponse, 0, len(depots))
	for i := range depots {
		responses = append(responses, ToDepotResponse(&depots[i]))
	}
	return responses, nil
}

// Delete soft-deletes a depot
func (s *DepotService) Delete(ctx context.Context, storeID, depotID uuid.UUID) error {
	depot, err := s.depotRepo.FindByIDForStore(ctx, storeID, depotID)
	if err != nil {
		return err
	}
	return s.depotRepo.Delete(ctx, depot.ID)
}
