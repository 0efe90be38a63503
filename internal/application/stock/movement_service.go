package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// MovementDocumentService manages the Pending→Complete lifecycle of
// inbound, outbound and adjustment documents. Creation validates lines
// against the depot's stock records; completion is the single point where
// the ledger mutates real stock, atomically per document.
type MovementDocumentService struct {
	txScope        TransactionScope
	movementRepo   stock.MovementDocumentRepository
	locationRepo   stock.StockLocationRepository
	ledger         *stock.Ledger
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewMovementDocumentService creates a new MovementDocumentService
func NewMovementDocumentService(
	txScope TransactionScope,
	movementRepo stock.MovementDocumentRepository,
	locationRepo stock.StockLocationRepository,
	ledger *stock.Ledger,
) *MovementDocumentService {
	return &MovementDocumentService{
		txScope:      txScope,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		ledger:       ledger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *MovementDocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create validates and persists a new pending document, generating its
// code inside the transaction. Outbound and adjustment lines require an
// existing stock record in the depot; inbound lines auto-create an empty
// one so the product is introduced to the depot at completion.
func (s *MovementDocumentService) Create(ctx context.Context, storeID uuid.UUID, req CreateMovementRequest) (*MovementDocumentResponse, error) {
	kind := stock.MovementKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown movement kind")
	}
	lines, err := toLineInputs(req.Lines)
	if err != nil {
		return nil, err
	}

	var doc *stock.MovementDocument
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.ensureLocations(ctx, repos, storeID, req.DepotID, kind, lines); err != nil {
			return err
		}

		day := s.now()
		seq, err := repos.MovementRepo().NextSequence(ctx, storeID, kind.CodePrefix(), day)
		if err != nil {
			return err
		}
		code := stock.FormatDocumentCode(kind.CodePrefix(), day, seq)

		doc, err = stock.NewMovementDocument(storeID, kind, stock.SourceManual, req.DepotID, code, req.CreatedBy, lines)
		if err != nil {
			return err
		}
		if req.Note != "" {
			if err := doc.SetNote(req.Note); err != nil {
				return err
			}
		}
		if req.DestinationDepotID != nil {
			if err := doc.SetDestinationDepot(*req.DestinationDepotID); err != nil {
				return err
			}
		}
		s.snapshotBookQuantities(ctx, repos, storeID, doc)

		return repos.MovementRepo().Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementDocumentResponse(doc)
	return &response, nil
}

// Update replaces the line set (and optionally the note) of a pending
// document. The previous lines are fully superseded.
func (s *MovementDocumentService) Update(ctx context.Context, storeID, docID uuid.UUID, req UpdateMovementRequest) (*MovementDocumentResponse, error) {
	lines, err := toLineInputs(req.Lines)
	if err != nil {
		return nil, err
	}

	var doc *stock.MovementDocument
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err = repos.MovementRepo().FindByIDForStore(ctx, storeID, docID)
		if err != nil {
			return err
		}

		if err := s.ensureLocations(ctx, repos, storeID, doc.DepotID, doc.Kind, lines); err != nil {
			return err
		}
		if err := doc.ReplaceLines(lines); err != nil {
			return err
		}
		if req.Note != nil {
			if err := doc.SetNote(*req.Note); err != nil {
				return err
			}
		}
		s.snapshotBookQuantities(ctx, repos, storeID, doc)

		return repos.MovementRepo().SaveWithLock(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementDocumentResponse(doc)
	return &response, nil
}

// Complete transitions a pending document to COMPLETE and applies every
// line through the ledger in one transaction. Lines are walked in stable
// product order under row locks; any line failure rolls the whole
// completion back, leaving the document PENDING and all stock untouched.
func (s *MovementDocumentService) Complete(ctx context.Context, storeID, docID uuid.UUID, expectedKind stock.MovementKind, completedBy uuid.UUID) (*MovementDocumentResponse, error) {
	var doc *stock.MovementDocument
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.MovementRepo().FindByIDForStore(ctx, storeID, docID)
		if err != nil {
			return err
		}

		if err := doc.Complete(expectedKind, completedBy, s.now()); err != nil {
			return err
		}

		for _, line := range doc.SortedLines() {
			delta := doc.SignedDelta(line)

			location, err := s.lockLocation(ctx, repos, storeID, doc.DepotID, line.ProductID, delta > 0)
			if err != nil {
				return err
			}
			doc.SnapshotStock(line.ProductID, location.Quantity)

			if err := s.applyDelta(doc.Kind, location, delta); err != nil {
				return err
			}
			if err := repos.LocationRepo().SaveWithLock(ctx, location); err != nil {
				return err
			}
			events = append(events, location.GetDomainEvents()...)
			location.ClearDomainEvents()

			// Transfers receive the shipped quantity at the destination depot.
			if doc.Kind == stock.MovementOutbound && doc.DestinationDepotID != nil {
				destination, err := s.lockLocation(ctx, repos, storeID, *doc.DestinationDepotID, line.ProductID, true)
				if err != nil {
					return err
				}
				if err := s.ledger.ApplyInbound(destination, line.Quantity); err != nil {
					return err
				}
				if err := repos.LocationRepo().SaveWithLock(ctx, destination); err != nil {
					return err
				}
				events = append(events, destination.GetDomainEvents()...)
				destination.ClearDomainEvents()
			}
		}

		if err := repos.MovementRepo().SaveWithLock(ctx, doc); err != nil {
			return err
		}
		events = append(events, doc.GetDomainEvents()...)
		doc.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	response := ToMovementDocumentResponse(doc)
	return &response, nil
}

// Delete removes a pending document with its lines. Completed documents
// are frozen audit records and cannot be deleted.
func (s *MovementDocumentService) Delete(ctx context.Context, storeID, docID uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		doc, err := repos.MovementRepo().FindByIDForStore(ctx, storeID, docID)
		if err != nil {
			return err
		}
		if !doc.IsPending() {
			return shared.ErrInvalidState
		}
		return repos.MovementRepo().Delete(ctx, doc.ID)
	})
}

// GetByID retrieves a document with its lines
func (s *MovementDocumentService) GetByID(ctx context.Context, storeID, docID uuid.UUID) (*MovementDocumentResponse, error) {
	doc, err := s.movementRepo.FindByIDForStore(ctx, storeID, docID)
	if err != nil {
		return nil, err
	}
	response := ToMovementDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents matching the filter with pagination
func (s *MovementDocumentService) List(ctx context.Context, storeID uuid.UUID, filter MovementListFilter) ([]MovementDocumentResponse, int64, error) {
	query := buildMovementQuery(filter)

	docs, err := s.movementRepo.FindAllForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementDocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToMovementDocumentResponse(&docs[i]))
	}
	return responses, total, nil
}

// ensureLocations validates every line product against the depot's stock
// records: outbound and adjustment lines fail with PRODUCT_NOT_IN_DEPOT
// when the product was never stocked there; inbound lines create an empty
// record so completion has a row to lock.
func (s *MovementDocumentService) ensureLocations(ctx context.Context, repos TransactionalRepositories, storeID, depotID uuid.UUID, kind stock.MovementKind, lines []stock.LineInput) error {
	for _, line := range lines {
		if kind == stock.MovementInbound {
			if _, err := repos.LocationRepo().GetOrCreate(ctx, storeID, depotID, line.ProductID); err != nil {
				return err
			}
			continue
		}
		_, err := repos.LocationRepo().FindByDepotAndProduct(ctx, storeID, depotID, line.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrProductNotInDepot
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// snapshotBookQuantities records each line's current book quantity for
// audit. Best effort at authoring time; completion refreshes the figures
// under lock.
func (s *MovementDocumentService) snapshotBookQuantities(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, doc *stock.MovementDocument) {
	for _, line := range doc.Lines {
		location, err := repos.LocationRepo().FindByDepotAndProduct(ctx, storeID, doc.DepotID, line.ProductID)
		if err != nil {
			continue
		}
		doc.SnapshotStock(line.ProductID, location.Quantity)
	}
}

// lockLocation loads a stock record under a row lock, creating an empty
// one first when the delta is inbound and the product is new to the depot.
func (s *MovementDocumentService) lockLocation(ctx context.Context, repos TransactionalRepositories, storeID, depotID, productID uuid.UUID, allowCreate bool) (*stock.StockLocation, error) {
	location, err := repos.LocationRepo().FindForUpdate(ctx, storeID, depotID, productID)
	if errors.Is(err, shared.ErrNotFound) {
		if !allowCreate {
			return nil, shared.ErrProductNotInDepot
		}
		if _, err := repos.LocationRepo().GetOrCreate(ctx, storeID, depotID, productID); err != nil {
			return nil, err
		}
		return repos.LocationRepo().FindForUpdate(ctx, storeID, depotID, productID)
	}
	return location, err
}

func (s *MovementDocumentService) applyDelta(kind stock.MovementKind, location *stock.StockLocation, delta int64) error {
	switch kind {
	case stock.MovementInbound:
		return s.ledger.ApplyInbound(location, delta)
	case stock.MovementOutbound:
		return s.ledger.ApplyOutbound(location, -delta)
	default:
		return s.ledger.ApplyAdjustment(location, delta)
	}
}

func (s *MovementDocumentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated.
	_ = s.eventPublisher.Publish(ctx, events...)
}

func toLineInputs(lines []MovementLineRequest) ([]stock.LineInput, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "document requires at least one line")
	}
	inputs := make([]stock.LineInput, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		inputs = append(inputs, stock.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Direction: stock.LineDirection(line.Direction),
			Price:     line.Price,
			Note:      line.Note,
		})
	}
	return inputs, nil
}

func buildMovementQuery(filter MovementListFilter) shared.ListQuery {
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
	if filter.Kind != "" {
		query = query.Where("kind", shared.OpEq, filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status", shared.OpEq, filter.Status)
	}
	if filter.DepotID != nil {
		query = query.Where("depot_id", shared.OpEq, *filter.DepotID)
	}
	if filter.From != nil {
		query = query.Where("created_at", shared.OpGte, *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at", shared.OpLte, *filter.To)
	}
	return query
}
