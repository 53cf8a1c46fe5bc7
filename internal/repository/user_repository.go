package repository

import (
	"context"
	"errors"

	"gamestore/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 読むだけ（作成は認証サービス側）
type UserRepository interface {
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
}
