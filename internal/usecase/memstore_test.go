package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================
// インメモリの保存先（Txはスナップショット+ロールバック）
// =====================

type memStore struct {
	mu       sync.Mutex
	products map[string]model.Product
	sales    map[string]model.Sale
	users    map[string]model.User
	adjs     []model.InventoryAdjustment

	// 故障注入
	failSaleCreate error
	failSetStock   map[string]error
	// 事前チェックとTxの間に割り込む処理（並行購入の再現用）
	beforeTx func()
}

func newMemStore() *memStore {
	return &memStore{
		products:     map[string]model.Product{},
		sales:        map[string]model.Sale{},
		users:        map[string]model.User{},
		failSetStock: map[string]error{},
	}
}

func (s *memStore) putProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) putUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) stockOf(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) saleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if s.beforeTx != nil {
		s.beforeTx()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	//スナップショット
	products := make(map[string]model.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	sales := make(map[string]model.Sale, len(s.sales))
	for k, v := range s.sales {
		sales[k] = v
	}
	adjs := append([]model.InventoryAdjustment(nil), s.adjs...)

	if err := fn(&memTx{s: s}); err != nil {
		s.products = products
		s.sales = sales
		s.adjs = adjs
		return err
	}
	return nil
}

// Tx内（ロック済み）
type memTx struct {
	s *memStore
}

func (t *memTx) Sales() repo.SaleRepository          { return &memSales{s: t.s, locked: true} }
func (t *memTx) Inventory() repo.InventoryRepository { return &memInventory{s: t.s} }
func (t *memTx) Products() repo.ProductRepository    { return &memProducts{s: t.s, locked: true} }

// =====================
// Products
// =====================

type memProducts struct {
	s      *memStore
	locked bool
}

func (r *memProducts) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memProducts) ListActive(ctx context.Context, limit int) ([]model.Product, error) {
	defer r.lock()()
	out := []model.Product{}
	for _, p := range r.s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProducts) FindByID(ctx context.Context, id string) (model.Product, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	defer r.lock()()
	r.s.products[p.ID] = p
	return p, nil
}

func (r *memProducts) Update(ctx context.Context, p model.Product) error {
	defer r.lock()()
	if _, ok := r.s.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}

func (r *memProducts) Deactivate(ctx context.Context, id string) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.IsActive = false
	r.s.products[id] = p
	return nil
}

func (r *memProducts) Stats(ctx context.Context, lowStockThreshold int64) (repo.InventoryStats, error) {
	return repo.InventoryStats{}, errors.New("not used")
}

// =====================
// Inventory（条件付き更新）
// =====================

type memInventory struct {
	s *memStore
}

func (r *memInventory) SetStockIfUnchanged(ctx context.Context, productID string, expectedStock int64, newStock int64) (bool, error) {
	if err := r.s.failSetStock[productID]; err != nil {
		return false, err
	}
	p, ok := r.s.products[productID]
	if !ok || p.Stock != expectedStock || newStock < 0 {
		return false, nil
	}
	p.Stock = newStock
	r.s.products[productID] = p
	return true, nil
}

func (r *memInventory) SetStock(ctx context.Context, productID string, newStock int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	r.s.products[productID] = p
	return nil
}

func (r *memInventory) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	r.s.adjs = append(r.s.adjs, adj)
	return nil
}

// =====================
// Sales
// =====================

type memSales struct {
	s      *memStore
	locked bool
}

func (r *memSales) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memSales) Create(ctx context.Context, sale model.Sale) error {
	defer r.lock()()
	if r.s.failSaleCreate != nil {
		return r.s.failSaleCreate
	}
	if _, dup := r.s.sales[sale.ID]; dup {
		return errors.New("duplicate sale id")
	}
	items := make([]model.SaleItem, len(sale.Items))
	copy(items, sale.Items)
	sale.Items = items
	r.s.sales[sale.ID] = sale
	return nil
}

func (r *memSales) FindByID(ctx context.Context, saleID string) (model.Sale, error) {
	defer r.lock()()
	s, ok := r.s.sales[saleID]
	if !ok {
		return model.Sale{}, repo.ErrNotFound
	}
	return r.project(s), nil
}

// 表示用の商品/ユーザー情報を付ける
func (r *memSales) project(s model.Sale) model.Sale {
	items := make([]model.SaleItem, len(s.Items))
	for i, it := range s.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			it.Product = &model.Product{ID: p.ID, Name: p.Name, Category: p.Category}
		}
		items[i] = it
	}
	s.Items = items
	if u, ok := r.s.users[s.UserID]; ok {
		s.User = &model.User{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return s
}

func (r *memSales) List(ctx context.Context, userID string, limit int) ([]model.Sale, error) {
	defer r.lock()()
	out := []model.Sale{}
	for _, s := range r.s.sales {
		if userID == "" || s.UserID == userID {
			out = append(out, r.project(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSales) Stats(ctx context.Context, recent int) (repo.SalesStats, error) {
	return repo.SalesStats{}, errors.New("not used")
}

// =====================
// ID / Clock / Publisher
// =====================

type uuidIDs struct{}

func (uuidIDs) NewID() string { return uuid.NewString() }

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.SaleCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishSaleCreated(ctx context.Context, ev model.SaleCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) published() []model.SaleCreatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.SaleCreatedEvent(nil), p.events...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
