package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

type fakeProductStore struct {
	products map[uuid.UUID]catalog.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[uuid.UUID]catalog.Product)}
}

func (s *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	product := p
	return &product, nil
}

func (s *fakeProductStore) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (s *fakeProductStore) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	for _, p := range s.products {
		if p.StoreID == storeID && p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *fakeProductStore) FindByIDs(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.ListQuery) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range s.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Save(_ context.Context, product *catalog.Product) error {
	stored := *product
	stored.ClearDomainEvents()
	s.products[product.ID] = stored
	return nil
}

func (s *fakeProductStore) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return s.Save(ctx, product)
}

func (s *fakeProductStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	out, err := s.FindAllForStore(ctx, storeID, query)
	return int64(len(out)), err
}

func (s *fakeProductStore) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	_, err := s.FindByCode(ctx, storeID, code)
	return err == nil, nil
}

var _ catalog.ProductRepository = (*fakeProductStore)(nil)

type fakeTotals struct {
	quantity   int64
	pending    int64
	outOfStock bool
}

func (f *fakeTotals) ProductTotals(context.Context, uuid.UUID, uuid.UUID) (int64, int64, bool, error) {
	return f.quantity, f.pending, f.outOfStock, nil
}

type fakeCache struct {
	invalidated []uuid.UUID
}

func (f *fakeCache) Invalidate(_ context.Context, _ uuid.UUID, productID uuid.UUID) error {
	f.invalidated = append(f.invalidated, productID)
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func seedMirrorProduct(t *testing.T, store *fakeProductStore, storeID uuid.UUID, minimum int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, "MIRROR-1", "Mirrored product", catalog.TrackingStrict)
	require.NoError(t, err)
	if minimum > 0 {
		require.NoError(t, product.SetMinimumStock(minimum))
		// Start comfortably above the threshold so a sync can cross it.
		product.SyncStockMirror(minimum*2, 0, false)
	}
	product.ClearDomainEvents()
	store.products[product.ID] = *product
	return product
}

func locationEventFor(storeID, depotID, productID uuid.UUID, quantity int64) shared.DomainEvent {
	location, _ := stock.NewStockLocation(storeID, depotID, productID)
	location.Quantity = quantity
	return stock.NewStockReceivedEvent(location, quantity)
}

func TestStockMirrorHandler(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("syncs the mirror from aggregated totals", func(t *testing.T) {
		store := newFakeProductStore()
		storeID := uuid.New()
		product := seedMirrorProduct(t, store, storeID, 0)
		totals := &fakeTotals{quantity: 14, pending: 3}
		handler := NewStockMirrorHandler(logger, store, totals)

		err := handler.Handle(ctx, locationEventFor(storeID, uuid.New(), product.ID, 14))
		require.NoError(t, err)

		synced := store.products[product.ID]
		assert.Equal(t, int64(14), synced.Stock)
		assert.Equal(t, int64(3), synced.Pending)
		assert.False(t, synced.OutOfStock)
	})

	t.Run("invalidates the sellable cache", func(t *testing.T) {
		store := newFakeProductStore()
		storeID := uuid.New()
		product := seedMirrorProduct(t, store, storeID, 0)
		cache := &fakeCache{}
		handler := NewStockMirrorHandler(logger, store, &fakeTotals{quantity: 5}).WithCache(cache)

		require.NoError(t, handler.Handle(ctx, locationEventFor(storeID, uuid.New(), product.ID, 5)))

		assert.Equal(t, []uuid.UUID{product.ID}, cache.invalidated)
	})

	t.Run("publishes a low-stock event when crossing the threshold", func(t *testing.T) {
		store := newFakeProductStore()
		storeID := uuid.New()
		product := seedMirrorProduct(t, store, storeID, 10)
		publisher := &recordingPublisher{}
		handler := NewStockMirrorHandler(logger, store, &fakeTotals{quantity: 4}).WithEventPublisher(publisher)

		require.NoError(t, handler.Handle(ctx, locationEventFor(storeID, uuid.New(), product.ID, 4)))

		require.Len(t, publisher.events, 1)
		assert.Equal(t, catalog.EventTypeProductBelowMinimum, publisher.events[0].EventType())
	})

	t.Run("does not repeat the low-stock event while still below", func(t *testing.T) {
		store := newFakeProductStore()
		storeID := uuid.New()
		product := seedMirrorProduct(t, store, storeID, 10)
		publisher := &recordingPublisher{}
		totals := &fakeTotals{quantity: 4}
		handler := NewStockMirrorHandler(logger, store, totals).WithEventPublisher(publisher)

		depotID := uuid.New()
		require.NoError(t, handler.Handle(ctx, locationEventFor(storeID, depotID, product.ID, 4)))
		totals.quantity = 3
		require.NoError(t, handler.Handle(ctx, locationEventFor(storeID, depotID, product.ID, 3)))

		assert.Len(t, publisher.events, 1)
	})

	t.Run("unknown product fails the handler", func(t *testing.T) {
		store := newFakeProductStore()
		handler := NewStockMirrorHandler(logger, store, &fakeTotals{})

		err := handler.Handle(ctx, locationEventFor(uuid.New(), uuid.New(), uuid.New(), 1))

		assert.Error(t, err)
	})

	t.Run("subscribes to every stock location event", func(t *testing.T) {
		handler := NewStockMirrorHandler(logger, newFakeProductStore(), &fakeTotals{})

		types := handler.EventTypes()

		assert.ElementsMatch(t, []string{
			stock.EventTypeStockReceived,
			stock.EventTypeStockRemoved,
			stock.EventTypeStockReserved,
			stock.EventTypeStockReleased,
			stock.EventTypeStockDepleted,
		}, types)
	})
}
