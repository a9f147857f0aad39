package repository

import (
	"context"
	"time"

	"dreamdrape/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	//ローテーション：使用済みにする
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
	RevokeAllByUserID(ctx context.Context, userID int64, revokedAt time.Time) error
}
