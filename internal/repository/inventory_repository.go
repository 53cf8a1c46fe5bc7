package repository

import (
	"context"

	"gamestore/internal/domain/model"
)

type InventoryRepository interface {
	// 読んだ時点から在庫が変わっていないときだけ新しい値にする。
	// 変わっていたら false。
	SetStockIfUnchanged(ctx context.Context, productID string, expectedStock int64, newStock int64) (bool, error)

	// 在庫の現在値を設定（管理者の調整）
	SetStock(ctx context.Context, productID string, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
