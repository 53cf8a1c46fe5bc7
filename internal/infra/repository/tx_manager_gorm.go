package repository

import (
	"context"

	repo "gamestore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	sales     repo.SaleRepository
	inventory repo.InventoryRepository
	products  repo.ProductRepository
}

func (r *txReposGorm) Sales() repo.SaleRepository          { return r.sales }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository    { return r.products }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			sales:     NewSaleGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
			products:  NewProductGormRepository(tx),
		}
		return fn(r)
	})
	//commit失敗も含めてPGのエラーはSQLSTATE付きで返す
	return wrapStorageError(err)
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)
