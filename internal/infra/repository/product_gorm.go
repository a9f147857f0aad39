package repository

import (
	"context"
	"errors"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)

	if q.Q != "" {
		like := "%" + q.Q + "%"
		base = base.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if q.CategoryID != nil {
		base = base.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *q.CategoryID)
	}
	if q.MinPrice != nil {
		base = base.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		base = base.Where("price <= ?", *q.MaxPrice)
	}
	if q.Featured != nil {
		base = base.Where("is_featured = ?", *q.Featured)
	}
	if q.OnSale != nil {
		base = base.Where("is_on_sale = ?", *q.OnSale)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		base = base.Order("price asc")
	case "price_desc":
		base = base.Order("price desc")
	default:
		base = base.Order("id desc")
	}

	var items []model.Product
	offset := (q.Page - 1) * q.Limit
	if err := base.Preload("Categories").Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Product{}, 0, err
	}
	return items, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Select("name", "description", "price", "original_price", "sku",
			"sizes", "colors", "material", "care_instructions",
			"is_featured", "is_new_arrival", "is_best_seller", "is_on_sale", "is_active").
		Updates(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	p := model.Product{ID: productID}
	cats := make([]model.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, model.Category{ID: id})
	}
	return r.db.WithContext(ctx).Model(&p).Association("Categories").Replace(cats)
}
