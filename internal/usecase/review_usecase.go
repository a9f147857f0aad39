package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

type ReviewUsecase struct {
	reviews  repo.ReviewRepository
	products repo.ProductRepository
	audit    *AuditRecorder
}

func NewReviewUsecase(reviews repo.ReviewRepository, products repo.ProductRepository, audit *AuditRecorder) *ReviewUsecase {
	return &ReviewUsecase{reviews: reviews, products: products, audit: audit}
}

type CreateReviewInput struct {
	ProductID int64
	Rating    int
	Comment   string
}

// 投稿は未承認で作られる。承認されるまで公開面には出ない。
func (u *ReviewUsecase) Create(ctx context.Context, userID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	exists, err := u.reviews.ExistsByUserAndProduct(ctx, userID, in.ProductID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Review{}, NewHTTPError(http.StatusConflict, "you have already reviewed this product")
	}

	created, err := u.reviews.Create(ctx, model.Review{
		UserID:     userID,
		ProductID:  in.ProductID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		IsApproved: false,
	})
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusConflict, "you have already reviewed this product")
	}
	return created, nil
}

type ReviewListOutput struct {
	Items []model.Review `json:"items"`
	Total int64          `json:"total"`
}

func (u *ReviewUsecase) ListAdmin(ctx context.Context, f repo.ReviewListFilter) (ReviewListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	items, total, err := u.reviews.List(ctx, f)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ReviewListOutput{Items: items, Total: total}, nil
}

func (u *ReviewUsecase) Approve(ctx context.Context, adminUserID, reviewID int64, meta RequestMeta) error {
	err := u.reviews.SetApproved(ctx, reviewID, true)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionApproveReview, model.AuditResourceReview, reviewID, "", meta)
	return nil
}

func (u *ReviewUsecase) Delete(ctx context.Context, adminUserID, reviewID int64, meta RequestMeta) error {
	err := u.reviews.DeleteByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionDeleteReview, model.AuditResourceReview, reviewID, "", meta)
	return nil
}
