package repository

import (
	"context"

	"dreamdrape/internal/domain/model"
)

type UserListQuery struct {
	Page  int
	Limit int
	Q     string
}

// 保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	// プロフィール・ロール・ロック状態などの更新
	Update(ctx context.Context, user *model.User) error
	//強制ログアウト用にトークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) (int, error)
	List(ctx context.Context, q UserListQuery) ([]model.User, int64, error)
	//ロック中ユーザーのカウンタを一括リセット（運用CLI用）
	ResetLockouts(ctx context.Context) (int64, error)
}
