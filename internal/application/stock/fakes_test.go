package stock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/order"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/stock"
)

// memoryStore backs the in-memory repository fakes. Aggregates are stored
// by value and deep-copied on every read and write so tests observe the
// same isolation a real database gives: mutations on a loaded aggregate
// are invisible until saved.
type memoryStore struct {
	mu        sync.Mutex
	locations map[string]stock.StockLocation
	movements map[uuid.UUID]stock.MovementDocument
	recons    map[uuid.UUID]stock.ReconciliationDocument
	orders    map[uuid.UUID]order.Order
	products  map[uuid.UUID]catalog.Product
	sequences map[string]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		locations: make(map[string]stock.StockLocation),
		movements: make(map[uuid.UUID]stock.MovementDocument),
		recons:    make(map[uuid.UUID]stock.ReconciliationDocument),
		orders:    make(map[uuid.UUID]order.Order),
		products:  make(map[uuid.UUID]catalog.Product),
		sequences: make(map[string]int),
	}
}

func locationKey(storeID, depotID, productID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", storeID, depotID, productID)
}

func (m *memoryStore) snapshot() *memoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := newMemoryStore()
	for k, v := range m.locations {
		s.locations[k] = v
	}
	for k, v := range m.movements {
		s.movements[k] = cloneMovement(v)
	}
	for k, v := range m.recons {
		s.recons[k] = cloneRecon(v)
	}
	for k, v := range m.orders {
		s.orders[k] = cloneOrder(v)
	}
	for k, v := range m.products {
		s.products[k] = v
	}
	for k, v := range m.sequences {
		s.sequences[k] = v
	}
	return s
}

func (m *memoryStore) restore(s *memoryStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = s.locations
	m.movements = s.movements
	m.recons = s.recons
	m.orders = s.orders
	m.products = s.products
	m.sequences = s.sequences
}

func cloneMovement(d stock.MovementDocument) stock.MovementDocument {
	lines := make([]stock.MovementLine, len(d.Lines))
	copy(lines, d.Lines)
	d.Lines = lines
	return d
}

func cloneRecon(d stock.ReconciliationDocument) stock.ReconciliationDocument {
	lines := make([]stock.ReconciliationLine, len(d.Lines))
	copy(lines, d.Lines)
	d.Lines = lines
	return d
}

func cloneOrder(o order.Order) order.Order {
	lines := make([]order.Line, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

// fakeTxScope snapshots the store before the unit of work and restores it
// on error, mimicking a rolled-back transaction.
type fakeTxScope struct {
	store *memoryStore
	repos *fakeRepos
}

func newFakeScope(store *memoryStore) *fakeTxScope {
	return &fakeTxScope{store: store, repos: &fakeRepos{store: store}}
}

func (s *fakeTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	snapshot := s.store.snapshot()
	if err := fn(s.repos); err != nil {
		s.store.restore(snapshot)
		return err
	}
	return nil
}

type fakeRepos struct {
	store *memoryStore
}

func (r *fakeRepos) LocationRepo() stock.StockLocationRepository    { return &fakeLocationRepo{r.store} }
func (r *fakeRepos) MovementRepo() stock.MovementDocumentRepository { return &fakeMovementRepo{r.store} }
func (r *fakeRepos) ReconciliationRepo() stock.ReconciliationRepository {
	return &fakeReconRepo{r.store}
}
func (r *fakeRepos) OrderRepo() order.Repository           { return &fakeOrderRepo{r.store} }
func (r *fakeRepos) ProductRepo() catalog.ProductRepository { return &fakeProductRepo{r.store} }

var _ TransactionScope = (*fakeTxScope)(nil)
var _ TransactionalRepositories = (*fakeRepos)(nil)

// --- stock locations ---

type fakeLocationRepo struct{ store *memoryStore }

func (r *fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockLocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.locations {
		if l.ID == id {
			loc := l
			return &loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLocationRepo) FindByDepotAndProduct(_ context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.locations[locationKey(storeID, depotID, productID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	loc := l
	return &loc, nil
}

func (r *fakeLocationRepo) FindForUpdate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	return r.FindByDepotAndProduct(ctx, storeID, depotID, productID)
}

func (r *fakeLocationRepo) GetOrCreate(ctx context.Context, storeID, depotID, productID uuid.UUID) (*stock.StockLocation, error) {
	if existing, err := r.FindByDepotAndProduct(ctx, storeID, depotID, productID); err == nil {
		return existing, nil
	}
	location, err := stock.NewStockLocation(storeID, depotID, productID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (r *fakeLocationRepo) FindAllForDepot(_ context.Context, storeID, depotID uuid.UUID, _ shared.ListQuery) ([]stock.StockLocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []stock.StockLocation
	for _, l := range r.store.locations {
		if l.StoreID == storeID && l.DepotID == depotID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) FindAllForProduct(_ context.Context, storeID, productID uuid.UUID) ([]stock.StockLocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []stock.StockLocation
	for _, l := range r.store.locations {
		if l.StoreID == storeID && l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Save(_ context.Context, location *stock.StockLocation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *location
	stored.ClearDomainEvents()
	r.store.locations[locationKey(location.StoreID, location.DepotID, location.ProductID)] = stored
	return nil
}

func (r *fakeLocationRepo) SaveWithLock(ctx context.Context, location *stock.StockLocation) error {
	return r.Save(ctx, location)
}

func (r *fakeLocationRepo) CountForDepot(ctx context.Context, storeID, depotID uuid.UUID, query shared.ListQuery) (int64, error) {
	out, err := r.FindAllForDepot(ctx, storeID, depotID, query)
	return int64(len(out)), err
}

var _ stock.StockLocationRepository = (*fakeLocationRepo)(nil)

// --- movement documents ---

type fakeMovementRepo struct{ store *memoryStore }

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.MovementDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.movements[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	doc := cloneMovement(d)
	return &doc, nil
}

func (r *fakeMovementRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*stock.MovementDocument, error) {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *fakeMovementRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*stock.MovementDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.movements {
		if d.StoreID == storeID && d.Code == code {
			doc := cloneMovement(d)
			return &doc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.ListQuery) ([]stock.MovementDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []stock.MovementDocument
	for _, d := range r.store.movements {
		if d.StoreID == storeID {
			out = append(out, cloneMovement(d))
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	out, err := r.FindAllForStore(ctx, storeID, query)
	return int64(len(out)), err
}

func (r *fakeMovementRepo) NextSequence(_ context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", storeID, prefix, day.Format("20060102"))
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

func (r *fakeMovementRepo) Save(_ context.Context, doc *stock.MovementDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := cloneMovement(*doc)
	stored.ClearDomainEvents()
	r.store.movements[doc.ID] = stored
	return nil
}

func (r *fakeMovementRepo) SaveWithLock(ctx context.Context, doc *stock.MovementDocument) error {
	return r.Save(ctx, doc)
}

func (r *fakeMovementRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.movements, id)
	return nil
}

var _ stock.MovementDocumentRepository = (*fakeMovementRepo)(nil)

// --- reconciliations ---

type fakeReconRepo struct{ store *memoryStore }

func (r *fakeReconRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ReconciliationDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.recons[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	doc := cloneRecon(d)
	return &doc, nil
}

func (r *fakeReconRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*stock.ReconciliationDocument, error) {
	doc, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *fakeReconRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.ListQuery) ([]stock.ReconciliationDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []stock.ReconciliationDocument
	for _, d := range r.store.recons {
		if d.StoreID == storeID {
			out = append(out, cloneRecon(d))
		}
	}
	return out, nil
}

func (r *fakeReconRepo) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	out, err := r.FindAllForStore(ctx, storeID, query)
	return int64(len(out)), err
}

func (r *fakeReconRepo) NextSequence(_ context.Context, storeID uuid.UUID, prefix string, day time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", storeID, prefix, day.Format("20060102"))
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

func (r *fakeReconRepo) Save(_ context.Context, doc *stock.ReconciliationDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := cloneRecon(*doc)
	stored.ClearDomainEvents()
	r.store.recons[doc.ID] = stored
	return nil
}

func (r *fakeReconRepo) SaveWithLock(ctx context.Context, doc *stock.ReconciliationDocument) error {
	return r.Save(ctx, doc)
}

func (r *fakeReconRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.recons, id)
	return nil
}

var _ stock.ReconciliationRepository = (*fakeReconRepo)(nil)

// --- orders ---

type fakeOrderRepo struct{ store *memoryStore }

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	ord := cloneOrder(o)
	return &ord, nil
}

func (r *fakeOrderRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	ord, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return ord, nil
}

func (r *fakeOrderRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.ListQuery) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []order.Order
	for _, o := range r.store.orders {
		if o.StoreID == storeID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := cloneOrder(*o)
	stored.ClearDomainEvents()
	r.store.orders[o.ID] = stored
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.Save(ctx, o)
}

var _ order.Repository = (*fakeOrderRepo)(nil)

// --- products ---

type fakeProductRepo struct{ store *memoryStore }

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	product := p
	return &product, nil
}

func (r *fakeProductRepo) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.StoreID == storeID && p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok && p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.ListQuery) ([]catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []catalog.Product
	for _, p := range r.store.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	return r.Save(ctx, product)
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) CountForStore(ctx context.Context, storeID uuid.UUID, query shared.ListQuery) (int64, error) {
	out, err := r.FindAllForStore(ctx, storeID, query)
	return int64(len(out)), err
}

func (r *fakeProductRepo) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, storeID, code)
	if err != nil {
		return false, nil
	}
	return true, nil
}

var _ catalog.ProductRepository = (*fakeProductRepo)(nil)

// --- event capture ---

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var _ shared.EventPublisher = (*capturingPublisher)(nil)
