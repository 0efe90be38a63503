package stock

import (
	"context"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every ledger-touching operation in this package runs
// through it: a failure on any line must leave every StockLocation and the
// document untouched.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// the current transaction.
//
// Aggregate boundary notes:
//   - LocationRepo: StockLocation rows are the shared mutable resource;
//     load them with FindForUpdate inside the scope so concurrent writers
//     serialize at the row.
//   - MovementRepo / ReconciliationRepo: documents own their lines; lines
//     save together with the header.
//   - OrderRepo / ProductRepo: collaborator aggregates, read inside the
//     scope so validation and mutation see the same snapshot.
type TransactionalRepositories interface {
	// LocationRepo returns the stock location repository scoped to the current transaction
	LocationRepo() stock.StockLocationRepository
	// MovementRepo returns the movement document repository scoped to the current transaction
	MovementRepo() stock.MovementDocumentRepository
	// ReconciliationRepo returns the reconciliation repository scoped to the current transaction
	ReconciliationRepo() stock.ReconciliationRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.Repository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope is a transaction scope without real transactions.
// Useful for tests built on in-memory fakes.
type NoOpTransactionScope struct {
	locationRepo       stock.StockLocationRepository
	movementRepo       stock.MovementDocumentRepository
	reconciliationRepo stock.ReconciliationRepository
	orderRepo          order.Repository
	productRepo        catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	locationRepo stock.StockLocationRepository,
	movementRepo stock.MovementDocumentRepository,
	reconciliationRepo stock.ReconciliationRepository,
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		locationRepo:       locationRepo,
		movementRepo:       movementRepo,
		reconciliationRepo: reconciliationRepo,
		orderRepo:          orderRepo,
		productRepo:        productRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LocationRepo returns the stock location repository
func (s *NoOpTransactionScope) LocationRepo() stock.StockLocationRepository {
	return s.locationRepo
}

// MovementRepo returns the movement document repository
func (s *NoOpTransactionScope) MovementRepo() stock.MovementDocumentRepository {
	return s.movementRepo
}

// ReconciliationRepo returns the reconciliation repository
func (s *NoOpTransactionScope) ReconciliationRepo() stock.ReconciliationRepository {
	return s.reconciliationRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
