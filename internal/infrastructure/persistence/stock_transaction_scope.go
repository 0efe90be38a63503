package persistence

import (
	"context"

	"gorm.io/gorm"

	appstock "github.com/shopcore/backend/internal/application/stock"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/stock"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every stock mutation runs through it so a mid-document failure rolls
// back all row changes together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// LocationRepo returns the stock location repository scoped to the current transaction
func (r *gormTransactionalRepositories) LocationRepo() stock.StockLocationRepository {
	return NewGormStockLocationRepository(r.tx)
}

// MovementRepo returns the movement document repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() stock.MovementDocumentRepository {
	return NewGormMovementDocumentRepository(r.tx)
}

// ReconciliationRepo returns the reconciliation repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReconciliationRepo() stock.ReconciliationRepository {
	return NewGormReconciliationRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
