package handler

import (
	"net/http"

	"dreamdrape/internal/config"
	"dreamdrape/internal/middleware"
	"dreamdrape/internal/repository"
	"dreamdrape/internal/usecase"
	"dreamdrape/pkg/validator"

	"github.com/labstack/echo/v4"
)

type ProductSaveRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	Description      string  `json:"description"`
	Price            int64   `json:"price" validate:"required,gt=0"`
	OriginalPrice    *int64  `json:"original_price" validate:"omitempty,gt=0"`
	SKU              string  `json:"sku" validate:"required,max=50"`
	Stock            int64   `json:"stock" validate:"gte=0"`
	Sizes            string  `json:"sizes" validate:"omitempty,max=200"`
	Colors           string  `json:"colors" validate:"omitempty,max=200"`
	Material         string  `json:"material" validate:"omitempty,max=100"`
	CareInstructions string  `json:"care_instructions"`
	IsFeatured       bool    `json:"is_featured"`
	IsNewArrival     bool    `json:"is_new_arrival"`
	IsBestSeller     bool    `json:"is_best_seller"`
	IsOnSale         bool    `json:"is_on_sale"`
	IsActive         bool    `json:"is_active"`
	CategoryIDs      []int64 `json:"category_ids"`
}

// InventoryUpdateRequest は在庫更新の入力です。
type InventoryUpdateRequest struct {
	Stock  int64  `json:"stock" validate:"gte=0"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type CategorySaveRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// /admin/products, /admin/categories, /admin/inventory をまとめる
type AdminProductHandler struct {
	uc         *usecase.ProductUsecase
	categories *usecase.CategoryUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, categories *usecase.CategoryUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, categories: categories}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.PUT("/inventory/:product_id", h.updateInventory)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	out, err := h.uc.Create(c.Request().Context(), adminID, saveProductInput(req), requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	out, err := h.uc.Update(c.Request().Context(), adminID, productID, saveProductInput(req), requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, productID, requestMeta(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

func (h *AdminProductHandler) updateInventory(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := pathID(c, "product_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	err = h.uc.UpdateStock(c.Request().Context(), adminID, productID, usecase.UpdateStockInput{
		NewStock: req.Stock,
		Reason:   req.Reason,
	}, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	var req CategorySaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	out, err := h.categories.Create(c.Request().Context(), usecase.SaveCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateCategory(c echo.Context) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CategorySaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	out, err := h.categories.Update(c.Request().Context(), categoryID, usecase.SaveCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func saveProductInput(req ProductSaveRequest) usecase.SaveProductInput {
	return usecase.SaveProductInput{
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		SKU:              req.SKU,
		Stock:            req.Stock,
		Sizes:            req.Sizes,
		Colors:           req.Colors,
		Material:         req.Material,
		CareInstructions: req.CareInstructions,
		IsFeatured:       req.IsFeatured,
		IsNewArrival:     req.IsNewArrival,
		IsBestSeller:     req.IsBestSeller,
		IsOnSale:         req.IsOnSale,
		IsActive:         req.IsActive,
		CategoryIDs:      req.CategoryIDs,
	}
}
