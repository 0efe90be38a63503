package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/shared"
)

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a product with prices and threshold", func(t *testing.T) {
		store := newFakeProductStore()
		service := NewProductService(store)
		importPrice := decimal.NewFromInt(3)
		salePrice := decimal.NewFromInt(5)

		created, err := service.Create(ctx, uuid.New(), CreateProductRequest{
			Code:         "tea-01",
			Name:         "Green tea",
			TrackingMode: "STRICT",
			ImportPrice:  &importPrice,
			SalePrice:    &salePrice,
			MinimumStock: 10,
		})
		require.NoError(t, err)

		assert.Equal(t, "TEA-01", created.Code)
		assert.Equal(t, "STRICT", created.TrackingMode)
		assert.True(t, created.ImportPrice.Equal(importPrice))
		assert.Equal(t, int64(10), created.MinimumStock)
	})

	t.Run("defaults to unstrict tracking", func(t *testing.T) {
		store := newFakeProductStore()
		service := NewProductService(store)

		created, err := service.Create(ctx, uuid.New(), CreateProductRequest{Code: "P1", Name: "Product"})
		require.NoError(t, err)

		assert.Equal(t, "UNSTRICT", created.TrackingMode)
	})

	t.Run("rejects duplicate codes", func(t *testing.T) {
		store := newFakeProductStore()
		service := NewProductService(store)
		storeID := uuid.New()

		_, err := service.Create(ctx, storeID, CreateProductRequest{Code: "P1", Name: "First"})
		require.NoError(t, err)

		_, err = service.Create(ctx, storeID, CreateProductRequest{Code: "P1", Name: "Second"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("publishes the created event", func(t *testing.T) {
		store := newFakeProductStore()
		service := NewProductService(store)
		publisher := &recordingPublisher{}
		service.SetEventPublisher(publisher)

		_, err := service.Create(ctx, uuid.New(), CreateProductRequest{Code: "P1", Name: "Product"})
		require.NoError(t, err)

		require.NotEmpty(t, publisher.events)
		assert.Equal(t, "ProductCreated", publisher.events[0].EventType())
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("switches tracking mode and threshold", func(t *testing.T) {
		store := newFakeProductStore()
		service := NewProductService(store)
		storeID := uuid.New()
		created, err := service.Create(ctx, storeID, CreateProductRequest{Code: "P1", Name: "Product"})
		require.NoError(t, err)

		mode := "STRICT"
		minimum := int64(5)
		updated, err := service.Update(ctx, storeID, created.ID, UpdateProductRequest{
			Name:         "Product",
			TrackingMode: &mode,
			MinimumStock: &minimum,
		})
		require.NoError(t, err)

		assert.Equal(t, "STRICT", updated.TrackingMode)
		assert.Equal(t, int64(5), updated.MinimumStock)
	})

	t.Run("unknown product fails with not found", func(t *testing.T) {
		service := NewProductService(newFakeProductStore())

		_, err := service.Update(ctx, uuid.New(), uuid.New(), UpdateProductRequest{Name: "X"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceQueries(t *testing.T) {
	ctx := context.Background()
	store := newFakeProductStore()
	service := NewProductService(store)
	storeID := uuid.New()

	created, err := service.Create(ctx, storeID, CreateProductRequest{Code: "P1", Name: "Product"})
	require.NoError(t, err)

	t.Run("get by id", func(t *testing.T) {
		found, err := service.GetByID(ctx, storeID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Code, found.Code)
	})

	t.Run("get by code", func(t *testing.T) {
		found, err := service.GetByCode(ctx, storeID, "P1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("list", func(t *testing.T) {
		responses, total, err := service.List(ctx, storeID, ProductListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, responses, 1)
	})

	t.Run("other stores see nothing", func(t *testing.T) {
		_, err := service.GetByID(ctx, uuid.New(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := newFakeProductStore()
	service := NewProductService(store)
	storeID := uuid.New()

	created, err := service.Create(ctx, storeID, CreateProductRequest{Code: "P1", Name: "Product"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, storeID, created.ID))

	_, err = service.GetByID(ctx, storeID, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
