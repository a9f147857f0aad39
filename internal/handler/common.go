package handler

import (
	"net/http"
	"strconv"
	"strings"

	"dreamdrape/internal/usecase"
	"dreamdrape/pkg/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error  string                     `json:"error"`
	Fields []*validator.ErrorResponse `json:"fields"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func writeValidationErrors(c echo.Context, errs []*validator.ErrorResponse) error {
	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: errs})
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("user_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

// プロキシ越しのclient IP。X-Forwarded-Forの先頭を優先する。
func requestMeta(c echo.Context) usecase.RequestMeta {
	ip := c.RealIP()
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			ip = first
		}
	}
	return usecase.RequestMeta{
		IP:        ip,
		UserAgent: c.Request().UserAgent(),
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// page/limitクエリ（default 1 / 20）
func paging(c echo.Context) (int, int) {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	return page, limit
}
