package handler_test

import (
	"testing"

	"dreamdrape/internal/config"
	"dreamdrape/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAdminUserHandler_Routes(t *testing.T) {
	e := echo.New()
	h := handler.NewAdminUserHandler(nil)
	h.RegisterRoutes(e, config.Config{}, nil)

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	assert.True(t, registered["GET /admin/users"])
	assert.True(t, registered["PUT /admin/users/:id"])
	assert.True(t, registered["POST /admin/users/:id/force-logout"])
}
