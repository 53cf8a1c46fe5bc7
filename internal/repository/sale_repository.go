package repository

import (
	"context"

	"gamestore/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 支払い方法ごとの集計
type PaymentMethodStat struct {
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Count         int64               `json:"count"`
	Total         decimal.Decimal     `json:"total"`
}

// 売上ダッシュボード用
type SalesStats struct {
	TotalSales           int64               `json:"totalSales"`
	TotalRevenue         decimal.Decimal     `json:"totalRevenue"`
	SalesByPaymentMethod []PaymentMethodStat `json:"salesByPaymentMethod"`
	RecentSales          []model.Sale        `json:"recentSales"`
}

type SaleRepository interface {
	// 明細ごと保存する
	Create(ctx context.Context, sale model.Sale) error

	// 明細（商品名/カテゴリ）と購入者（名前/メール）付きで取得
	FindByID(ctx context.Context, saleID string) (model.Sale, error)

	// userIDが空なら全件。新しい順に最大limit件
	List(ctx context.Context, userID string, limit int) ([]model.Sale, error)

	Stats(ctx context.Context, recent int) (SalesStats, error)
}
