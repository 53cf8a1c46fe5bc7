package usecase_test

import (
	"context"

	"gamestore/internal/domain/model"
	repo "gamestore/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) Stats(ctx context.Context, lowStockThreshold int64) (repo.InventoryStats, error) {
	args := m.Called(ctx, lowStockThreshold)
	st, _ := args.Get(0).(repo.InventoryStats)
	return st, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStockIfUnchanged(ctx context.Context, productID string, expectedStock int64, newStock int64) (bool, error) {
	args := m.Called(ctx, productID, expectedStock, newStock)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID string, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) Create(ctx context.Context, sale model.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *SaleRepoMock) FindByID(ctx context.Context, saleID string) (model.Sale, error) {
	args := m.Called(ctx, saleID)
	s, _ := args.Get(0).(model.Sale)
	return s, args.Error(1)
}

func (m *SaleRepoMock) List(ctx context.Context, userID string, limit int) ([]model.Sale, error) {
	args := m.Called(ctx, userID, limit)
	items, _ := args.Get(0).([]model.Sale)
	return items, args.Error(1)
}

func (m *SaleRepoMock) Stats(ctx context.Context, recent int) (repo.SalesStats, error) {
	args := m.Called(ctx, recent)
	st, _ := args.Get(0).(repo.SalesStats)
	return st, args.Error(1)
}

// fnをそのまま呼ぶだけのTx（モックのrepoを渡す）
type passThroughTx struct {
	sales     repo.SaleRepository
	inventory repo.InventoryRepository
	products  repo.ProductRepository
}

func (t *passThroughTx) Sales() repo.SaleRepository          { return t.sales }
func (t *passThroughTx) Inventory() repo.InventoryRepository { return t.inventory }
func (t *passThroughTx) Products() repo.ProductRepository    { return t.products }

func (t *passThroughTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t)
}

var (
	_ repo.ProductRepository   = (*ProductRepoMock)(nil)
	_ repo.InventoryRepository = (*InventoryRepoMock)(nil)
	_ repo.SaleRepository      = (*SaleRepoMock)(nil)
	_ repo.TransactionManager  = (*passThroughTx)(nil)
)
