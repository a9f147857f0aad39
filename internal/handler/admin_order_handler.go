package handler

import (
	"net/http"
	"strconv"
	"time"

	"dreamdrape/internal/config"
	"dreamdrape/internal/middleware"
	"dreamdrape/internal/repository"
	"dreamdrape/internal/usecase"
	"dreamdrape/pkg/validator"

	"github.com/labstack/echo/v4"
)

// /admin/orders と /admin/dashboard のHTTP
type AdminOrderHandler struct {
	uc        *usecase.AdminOrderUsecase
	dashboard *usecase.DashboardUsecase
}

// DI
func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, dashboard *usecase.DashboardUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, dashboard: dashboard}
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
}

// adminを登録
func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.listOrders)
	admin.GET("/orders/:id", h.orderDetail)
	admin.PUT("/orders/:id/status", h.updateStatus)
	admin.GET("/dashboard", h.getDashboard)
}

func (h *AdminOrderHandler) listOrders(c echo.Context) error {
	page, limit := paging(c)

	f := repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) orderDetail(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetDetail(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		return writeValidationErrors(c, errs)
	}

	err = h.uc.UpdateStatus(c.Request().Context(), adminID, orderID, usecase.UpdateOrderStatusInput{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	}, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "order status updated"})
}

func (h *AdminOrderHandler) getDashboard(c echo.Context) error {
	out, err := h.dashboard.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
