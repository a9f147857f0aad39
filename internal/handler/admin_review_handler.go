package handler

import (
	"net/http"

	"dreamdrape/internal/config"
	"dreamdrape/internal/middleware"
	"dreamdrape/internal/repository"
	"dreamdrape/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/reviews のHTTP
type AdminReviewHandler struct {
	uc *usecase.ReviewUsecase
}

// DI
func NewAdminReviewHandler(uc *usecase.ReviewUsecase) *AdminReviewHandler {
	return &AdminReviewHandler{uc: uc}
}

// adminを登録
func (h *AdminReviewHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/reviews", h.list)
	admin.POST("/reviews/:id/approve", h.approve)
	admin.DELETE("/reviews/:id", h.remove)
}

func (h *AdminReviewHandler) list(c echo.Context) error {
	page, limit := paging(c)

	f := repository.ReviewListFilter{Page: page, Limit: limit}
	if v := c.QueryParam("approved"); v != "" {
		b := v == "true" || v == "1"
		f.Approved = &b
	}

	out, err := h.uc.ListAdmin(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminReviewHandler) approve(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	reviewID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Approve(c.Request().Context(), adminID, reviewID, requestMeta(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "review approved"})
}

func (h *AdminReviewHandler) remove(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	reviewID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, reviewID, requestMeta(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "review deleted"})
}
