package repository

import (
	"context"

	"dreamdrape/internal/domain/model"
)

type ReviewListFilter struct {
	Approved *bool
	Page     int
	Limit    int
}

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	FindByID(ctx context.Context, id int64) (model.Review, error)
	//公開面では承認済みのみ
	ListApprovedByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	//商品詳細の平均評価（承認済みのみ、レビュー無しは0）
	AverageRating(ctx context.Context, productID int64) (float64, error)
	ExistsByUserAndProduct(ctx context.Context, userID int64, productID int64) (bool, error)
	List(ctx context.Context, f ReviewListFilter) ([]model.Review, int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	DeleteByID(ctx context.Context, id int64) error
}
