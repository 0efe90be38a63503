package stock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// OrderStockCoordinator keeps pending and on-hand quantities consistent
// with the order state machine (Created → Completed | Cancelled). Orders
// are not movement documents: reservations mutate the stock records
// directly, and only completion synthesizes an audit outbound document.
type OrderStockCoordinator struct {
	txScope        TransactionScope
	orderRepo      order.Repository
	eventPublisher shared.EventPublisher
	ledger         *stock.Ledger
	now            func() time.Time
}

// NewOrderStockCoordinator creates a new OrderStockCoordinator
func NewOrderStockCoordinator(txScope TransactionScope, orderRepo order.Repository, ledger *stock.Ledger) *OrderStockCoordinator {
	return &OrderStockCoordinator{
		txScope:   txScope,
		orderRepo: orderRepo,
		ledger:    ledger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (c *OrderStockCoordinator) SetEventPublisher(publisher shared.EventPublisher) {
	c.eventPublisher = publisher
}

// ReserveForOrder takes a pending-stock reservation for every order line,
// all-or-nothing in one transaction. A strict product whose sellable stock
// cannot cover its line fails the whole reservation with
// INSUFFICIENT_STOCK, so the caller can reject the order creation itself.
func (c *OrderStockCoordinator) ReserveForOrder(ctx context.Context, storeID, orderID uuid.UUID) error {
	var events []shared.DomainEvent

	err := c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.OrderRepo().FindByIDForStore(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		if ord.Status != order.StatusCreated || ord.StockReserved {
			return shared.ErrInvalidState
		}

		strict, err := c.strictModes(ctx, repos, storeID, ord)
		if err != nil {
			return err
		}

		for _, line := range sortedOrderLines(ord) {
			location, err := c.lockOrCreate(ctx, repos, storeID, ord.DepotID, line.ProductID)
			if err != nil {
				return err
			}
			if err := c.ledger.Reserve(location, line.Quantity, strict[line.ProductID]); err != nil {
				return err
			}
			if err := repos.LocationRepo().SaveWithLock(ctx, location); err != nil {
				return err
			}
			events = append(events, location.GetDomainEvents()...)
			location.ClearDomainEvents()
		}

		if err := ord.MarkReserved(); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return err
	}

	c.publish(ctx, events)
	return nil
}

// CompleteOrderStock converts the order's reservations into physical
// outbound stock: per line the quantity is decremented first and the
// reservation released second, since releasing alone would under-count
// on-hand stock. One audit outbound document is synthesized for the whole
// order. Fails with INVALID_STATE when the order is not open or its lines
// were never reserved.
func (c *OrderStockCoordinator) CompleteOrderStock(ctx context.Context, storeID, orderID, completedBy uuid.UUID) error {
	var events []shared.DomainEvent

	err := c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.OrderRepo().FindByIDForStore(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		if !ord.CanCompleteStock() {
			return shared.ErrInvalidState
		}

		auditLines := make([]stock.LineInput, 0, len(ord.Lines))
		for _, line := range sortedOrderLines(ord) {
			location, err := repos.LocationRepo().FindForUpdate(ctx, storeID, ord.DepotID, line.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrProductNotInDepot
			}
			if err != nil {
				return err
			}

			if err := c.ledger.ApplyOutbound(location, line.Quantity); err != nil {
				return err
			}
			if err := c.ledger.Release(location, line.Quantity); err != nil {
				return err
			}
			if err := repos.LocationRepo().SaveWithLock(ctx, location); err != nil {
				return err
			}
			events = append(events, location.GetDomainEvents()...)
			location.ClearDomainEvents()

			price := line.UnitPrice
			auditLines = append(auditLines, stock.LineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     &price,
				Note:      ord.Code,
			})
		}

		auditEvents, err := c.writeAuditOutbound(ctx, repos, storeID, ord, completedBy, auditLines)
		if err != nil {
			return err
		}
		events = append(events, auditEvents...)

		if err := ord.Complete(completedBy, c.now()); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return err
	}

	c.publish(ctx, events)
	return nil
}

// ReleaseOrderStock drops the order's reservations and cancels it.
// Physical quantity is untouched: it was never decremented for an
// uncompleted order.
func (c *OrderStockCoordinator) ReleaseOrderStock(ctx context.Context, storeID, orderID uuid.UUID) error {
	var events []shared.DomainEvent

	err := c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.OrderRepo().FindByIDForStore(ctx, storeID, orderID)
		if err != nil {
			return err
		}

		if ord.StockReserved {
			for _, line := range sortedOrderLines(ord) {
				location, err := repos.LocationRepo().FindForUpdate(ctx, storeID, ord.DepotID, line.ProductID)
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				if err := c.ledger.Release(location, line.Quantity); err != nil {
					return err
				}
				if err := repos.LocationRepo().SaveWithLock(ctx, location); err != nil {
					return err
				}
				events = append(events, location.GetDomainEvents()...)
				location.ClearDomainEvents()
			}
		}

		if err := ord.Cancel(); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, ord)
	})
	if err != nil {
		return err
	}

	c.publish(ctx, events)
	return nil
}

// strictModes resolves each line product's tracking mode
func (c *OrderStockCoordinator) strictModes(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, ord *order.Order) (map[uuid.UUID]bool, error) {
	ids := make([]uuid.UUID, 0, len(ord.Lines))
	for _, line := range ord.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := repos.ProductRepo().FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	strict := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		strict[p.ID] = p.IsStrict()
	}
	return strict, nil
}

// lockOrCreate loads a stock record under a row lock, creating an empty
// one for products never stocked in the depot (loose products may reserve
// against expected replenishment).
func (c *OrderStockCoordinator) lockOrCreate(ctx context.Context, repos TransactionalRepositories, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	location, err := repos.LocationRepo().FindForUpdate(ctx, storeID, depotID, productID)
	if errors.Is(err, shared.ErrNotFound) {
		if _, err := repos.LocationRepo().GetOrCreate(ctx, storeID, depotID, productID); err != nil {
			return nil, err
		}
		return repos.LocationRepo().FindForUpdate(ctx, storeID, depotID, productID)
	}
	return location, err
}

func (c *OrderStockCoordinator) writeAuditOutbound(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, ord *order.Order, actor uuid.UUID, lines []stock.LineInput) ([]shared.DomainEvent, error) {
	day := c.now()
	seq, err := repos.MovementRepo().NextSequence(ctx, storeID, stock.MovementOutbound.CodePrefix(), day)
	if err != nil {
		return nil, err
	}
	code := stock.FormatDocumentCode(stock.MovementOutbound.CodePrefix(), day, seq)

	audit, err := stock.NewMovementDocument(storeID, stock.MovementOutbound, stock.SourceOrder, ord.DepotID, code, actor, lines)
	if err != nil {
		return nil, err
	}
	// Stock already left through the ledger above; the audit document is
	// born complete.
	if err := audit.Complete(stock.MovementOutbound, actor, c.now()); err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Save(ctx, audit); err != nil {
		return nil, err
	}
	events := audit.GetDomainEvents()
	audit.ClearDomainEvents()
	return events, nil
}

func (c *OrderStockCoordinator) publish(ctx context.Context, events []shared.DomainEvent) {
	if c.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = c.eventPublisher.Publish(ctx, events...)
}

// sortedOrderLines returns the order's lines in stable product order so
// multi-line reservations acquire row locks consistently.
func sortedOrderLines(ord *order.Order) []order.Line {
	lines := make([]order.Line, len(ord.Lines))
	copy(lines, ord.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}
