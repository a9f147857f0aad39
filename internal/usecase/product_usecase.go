package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

type ProductUsecase struct {
	products  repo.ProductRepository
	reviews   repo.ReviewRepository
	inventory repo.InventoryRepository
	audit     *AuditRecorder
}

func NewProductUsecase(
	products repo.ProductRepository,
	reviews repo.ReviewRepository,
	inventory repo.InventoryRepository,
	audit *AuditRecorder,
) *ProductUsecase {
	return &ProductUsecase{products: products, reviews: reviews, inventory: inventory, audit: audit}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, q repo.ProductListQuery) (ProductListOutput, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	items, total, err := u.products.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

type ProductDetailOutput struct {
	Product       model.Product  `json:"product"`
	AverageRating float64        `json:"average_rating"`
	Reviews       []model.Review `json:"reviews"`
}

func (u *ProductUsecase) GetDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//非公開商品は公開面に出さない
	if !p.IsActive {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	avg, err := u.reviews.AverageRating(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	reviews, err := u.reviews.ListApprovedByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{Product: p, AverageRating: avg, Reviews: reviews}, nil
}

type SaveProductInput struct {
	Name             string
	Description      string
	Price            int64
	OriginalPrice    *int64
	SKU              string
	Stock            int64
	Sizes            string
	Colors           string
	Material         string
	CareInstructions string
	IsFeatured       bool
	IsNewArrival     bool
	IsBestSeller     bool
	IsOnSale         bool
	IsActive         bool
	CategoryIDs      []int64
}

func (u *ProductUsecase) Create(ctx context.Context, adminUserID int64, in SaveProductInput, meta RequestMeta) (model.Product, error) {
	if in.Price <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}

	created, err := u.products.Create(ctx, model.Product{
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Price:            in.Price,
		OriginalPrice:    in.OriginalPrice,
		SKU:              strings.TrimSpace(in.SKU),
		Stock:            in.Stock,
		Sizes:            in.Sizes,
		Colors:           in.Colors,
		Material:         in.Material,
		CareInstructions: in.CareInstructions,
		IsFeatured:       in.IsFeatured,
		IsNewArrival:     in.IsNewArrival,
		IsBestSeller:     in.IsBestSeller,
		IsOnSale:         in.IsOnSale,
		IsActive:         in.IsActive,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusConflict, "sku already exists")
	}

	if len(in.CategoryIDs) > 0 {
		if err := u.products.ReplaceCategories(ctx, created.ID, in.CategoryIDs); err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionCreateProduct, model.AuditResourceProduct, created.ID,
		"product "+created.SKU+" created", meta)

	return created, nil
}

func (u *ProductUsecase) Update(ctx context.Context, adminUserID, productID int64, in SaveProductInput, meta RequestMeta) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.Price <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be positive")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.SKU = strings.TrimSpace(in.SKU)
	p.Sizes = in.Sizes
	p.Colors = in.Colors
	p.Material = in.Material
	p.CareInstructions = in.CareInstructions
	p.IsFeatured = in.IsFeatured
	p.IsNewArrival = in.IsNewArrival
	p.IsBestSeller = in.IsBestSeller
	p.IsOnSale = in.IsOnSale
	p.IsActive = in.IsActive

	//在庫はここでは触らない。UpdateStockで調整履歴とセットで更新する。

	if err := u.products.Update(ctx, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.CategoryIDs != nil {
		if err := u.products.ReplaceCategories(ctx, p.ID, in.CategoryIDs); err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionUpdateProduct, model.AuditResourceProduct, p.ID,
		"product "+p.SKU+" updated", meta)

	return p, nil
}

// Deleteは論理削除。既存の注文明細から参照され続けるため行は残す。
func (u *ProductUsecase) Delete(ctx context.Context, adminUserID, productID int64, meta RequestMeta) error {
	err := u.products.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, "", meta)
	return nil
}

type UpdateStockInput struct {
	NewStock int64
	Reason   string
}

// UpdateStockは在庫数を直接設定し、差分を調整履歴として残す。
func (u *ProductUsecase) UpdateStock(ctx context.Context, adminUserID, productID int64, in UpdateStockInput, meta RequestMeta) error {
	if in.NewStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	delta := in.NewStock - p.Stock

	if err := u.inventory.SetStock(ctx, productID, in.NewStock); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "manual adjustment"
	}
	err = u.inventory.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID:   productID,
		AdminUserID: adminUserID,
		Delta:       delta,
		Reason:      reason,
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
		fmt.Sprintf("stock %d -> %d (%s)", p.Stock, in.NewStock, reason), meta)

	return nil
}
