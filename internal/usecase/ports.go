package usecase

import (
	"context"
	"time"

	"gamestore/internal/domain/model"
)

// ID採番
type IDGenerator interface {
	NewID() string
}

// 現在時刻（テストで固定するため）
type Clock interface {
	Now() time.Time
}

// 認証ミドルウェアが検証済みの呼び出し元
type Actor struct {
	UserID string
	Role   model.Role
}

// コミット後に売上イベントを流す先
type SaleEventPublisher interface {
	PublishSaleCreated(ctx context.Context, ev model.SaleCreatedEvent) error
}

// ブローカー未設定のとき
type NopSaleEventPublisher struct{}

func (NopSaleEventPublisher) PublishSaleCreated(ctx context.Context, ev model.SaleCreatedEvent) error {
	return nil
}
