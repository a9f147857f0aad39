package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) ListActive(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categories.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

type SaveCategoryInput struct {
	Name        string
	Description string
	IsActive    bool
}

func (u *CategoryUsecase) Create(ctx context.Context, in SaveCategoryInput) (model.Category, error) {
	created, err := u.categories.Create(ctx, model.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	return created, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, categoryID int64, in SaveCategoryInput) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.IsActive = in.IsActive

	if err := u.categories.Update(ctx, c); err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}
