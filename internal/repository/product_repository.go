package repository

import (
	"context"
	"errors"

	"gamestore/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カテゴリ別の集計
type CategoryStat struct {
	Category   string `json:"category"`
	Products   int64  `json:"products"`
	TotalStock int64  `json:"totalStock"`
}

// 在庫ダッシュボード用
type InventoryStats struct {
	TotalProducts    int64          `json:"totalProducts"`
	LowStockProducts int64          `json:"lowStockProducts"`
	TotalStock       int64          `json:"totalStock"`
	Categories       []CategoryStat `json:"categories"`
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 公開中の商品を新しい順に最大limit件
	ListActive(ctx context.Context, limit int) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	// is_active=false にするだけ
	Deactivate(ctx context.Context, id string) error

	// stockがlowStockThreshold未満を在庫少とする
	Stats(ctx context.Context, lowStockThreshold int64) (InventoryStats, error)
}
