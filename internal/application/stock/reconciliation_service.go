package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// ReconciliationService manages physical-count documents. Completion
// converges every counted product's book quantity to the counted value
// through the ledger and synthesizes audit movement documents so the
// stock-movement trail stays complete even though the trigger was a
// count, not a delivery.
type ReconciliationService struct {
	txScope            TransactionScope
	reconciliationRepo stock.ReconciliationRepository
	eventPublisher     shared.EventPublisher
	ledger             *stock.Ledger
	now                func() time.Time
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	txScope TransactionScope,
	reconciliationRepo stock.ReconciliationRepository,
	ledger *stock.Ledger,
) *ReconciliationService {
	return &ReconciliationService{
		txScope:            txScope,
		reconciliationRepo: reconciliationRepo,
		ledger:             ledger,
		now:                time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *ReconciliationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create validates and persists a pending count document. Every counted
// product must already have a stock record in the depot; counts carry
// absolute quantities and may be zero.
func (s *ReconciliationService) Create(ctx context.Context, storeID uuid.UUID, req CreateReconciliationRequest) (*ReconciliationResponse, error) {
	counts := make([]stock.CountInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		counts = append(counts, stock.CountInput{
			ProductID:       line.ProductID,
			CountedQuantity: line.CountedQuantity,
			Note:            line.Note,
		})
	}

	var doc *stock.ReconciliationDocument
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.validateDepotMembership(ctx, repos, storeID, req.DepotID, counts); err != nil {
			return err
		}

		day := s.now()
		seq, err := repos.ReconciliationRepo().NextSequence(ctx, storeID, stock.ReconciliationCodePrefix, day)
		if err != nil {
			return err
		}
		code := stock.FormatDocumentCode(stock.ReconciliationCodePrefix, day, seq)

		doc, err = stock.NewReconciliationDocument(storeID, req.DepotID, code, req.CreatedBy, counts)
		if err != nil {
			return err
		}
		doc.Note = req.Note

		return repos.ReconciliationRepo().Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	response := ToReconciliationResponse(doc)
	return &response, nil
}

// Complete applies the count in one transaction: per line the book value
// is read under lock, the signed difference pushed through the ledger, and
// the counted figure pinned as authoritative. Depot membership is
// re-validated since it can change between creation and completion. Audit
// inbound/outbound documents are synthesized for the surpluses and
// shortages found.
func (s *ReconciliationService) Complete(ctx context.Context, storeID, docID, completedBy uuid.UUID) (*ReconciliationResponse, error) {
	var doc *stock.ReconciliationDocument
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.ReconciliationRepo().FindByIDForStore(ctx, storeID, docID)
		if err != nil {
			return err
		}
		if !doc.IsPending() {
			return shared.ErrInvalidState
		}

		products, err := s.loadProducts(ctx, repos, storeID, doc)
		if err != nil {
			return err
		}

		var surpluses, shortages []stock.LineInput
		for _, line := range doc.SortedLines() {
			location, err := repos.LocationRepo().FindForUpdate(ctx, storeID, doc.DepotID, line.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrProductNotInDepot
			}
			if err != nil {
				return err
			}

			book := location.Quantity
			diff, err := s.ledger.PinCounted(location, line.CountedQuantity)
			if err != nil {
				return err
			}
			if err := repos.LocationRepo().SaveWithLock(ctx, location); err != nil {
				return err
			}
			events = append(events, location.GetDomainEvents()...)
			location.ClearDomainEvents()

			doc.RecordResult(line.ProductID, book, diff, s.moneyDiff(products, line.ProductID, diff))

			switch {
			case diff > 0:
				surpluses = append(surpluses, stock.LineInput{ProductID: line.ProductID, Quantity: diff, Note: doc.Code})
			case diff < 0:
				shortages = append(shortages, stock.LineInput{ProductID: line.ProductID, Quantity: -diff, Note: doc.Code})
			}
		}

		auditEvents, err := s.writeAuditDocuments(ctx, repos, storeID, doc, completedBy, surpluses, shortages)
		if err != nil {
			return err
		}
		events = append(events, auditEvents...)

		if err := doc.Complete(completedBy, s.now()); err != nil {
			return err
		}
		if err := repos.ReconciliationRepo().SaveWithLock(ctx, doc); err != nil {
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
	response := ToReconciliationResponse(doc)
	return &response, nil
}

// GetByID retrieves a count document with its lines
func (s *ReconciliationService) GetByID(ctx context.Context, storeID, docID uuid.UUID) (*ReconciliationResponse, error) {
	doc, err := s.reconciliationRepo.FindByIDForStore(ctx, storeID, docID)
	if err != nil {
		return nil, err
	}
	response := ToReconciliationResponse(doc)
	return &response, nil
}

// List retrieves count documents matching the filter with pagination
func (s *ReconciliationService) List(ctx context.Context, storeID uuid.UUID, filter ReconciliationListFilter) ([]ReconciliationResponse, int64, error) {
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
	if filter.Status != "" {
		query = query.Where("status", shared.OpEq, filter.Status)
	}
	if filter.DepotID != nil {
		query = query.Where("depot_id", shared.OpEq, *filter.DepotID)
	}

	docs, err := s.reconciliationRepo.FindAllForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reconciliationRepo.CountForStore(ctx, storeID, query)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReconciliationResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToReconciliationResponse(&docs[i]))
	}
	return responses, total, nil
}

// validateDepotMembership fails with PRODUCT_NOT_IN_DEPOT before any
// mutation when a counted product has no stock record in the depot.
func (s *ReconciliationService) validateDepotMembership(ctx context.Context, repos TransactionalRepositories, storeID, depotID uuid.UUID, counts []stock.CountInput) error {
	for _, count := range counts {
		_, err := repos.LocationRepo().FindByDepotAndProduct(ctx, storeID, depotID, count.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrProductNotInDepot
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ReconciliationService) loadProducts(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, doc *stock.ReconciliationDocument) (map[uuid.UUID]catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := repos.ProductRepo().FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// moneyDiff values a count difference at the product's import price at
// reconciliation time. Reporting figure only; it never feeds the ledger.
func (s *ReconciliationService) moneyDiff(products map[uuid.UUID]catalog.Product, productID uuid.UUID, diff int64) decimal.Decimal {
	product, ok := products[productID]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(diff).Mul(product.ImportPrice)
}

// writeAuditDocuments persists completed inbound/outbound documents
// mirroring the count's surpluses and shortages.
func (s *ReconciliationService) writeAuditDocuments(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, doc *stock.ReconciliationDocument, actor uuid.UUID, surpluses, shortages []stock.LineInput) ([]shared.DomainEvent, error) {
	var events []shared.DomainEvent

	write := func(kind stock.MovementKind, lines []stock.LineInput) error {
		if len(lines) == 0 {
			return nil
		}
		day := s.now()
		seq, err := repos.MovementRepo().NextSequence(ctx, storeID, kind.CodePrefix(), day)
		if err != nil {
			return err
		}
		audit, err := stock.NewMovementDocument(storeID, kind, stock.SourceReconciliation, doc.DepotID, stock.FormatDocumentCode(kind.CodePrefix(), day, seq), actor, lines)
		if err != nil {
			return err
		}
		// The ledger already applied the deltas via PinCounted; the audit
		// document is born complete.
		if err := audit.Complete(kind, actor, s.now()); err != nil {
			return err
		}
		if err := repos.MovementRepo().Save(ctx, audit); err != nil {
			return err
		}
		events = append(events, audit.GetDomainEvents()...)
		audit.ClearDomainEvents()
		return nil
	}

	if err := write(stock.MovementInbound, surpluses); err != nil {
		return nil, err
	}
	if err := write(stock.MovementOutbound, shortages); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *ReconciliationService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
