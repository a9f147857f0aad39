package model_test

import (
	"strings"
	"testing"
	"time"

	"dreamdrape/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	n := model.NewOrderNumber(now)

	assert.Len(t, n, 18)
	assert.True(t, strings.HasPrefix(n, "DD20260829"), n)
	assert.Equal(t, strings.ToUpper(n), n)

	//同時刻でも衝突しない
	assert.NotEqual(t, n, model.NewOrderNumber(now))
}

func TestOrder_Cancellable(t *testing.T) {
	cases := []struct {
		status model.OrderStatus
		want   bool
	}{
		{model.OrderStatusPending, true},
		{model.OrderStatusConfirmed, true},
		{model.OrderStatusShipped, false},
		{model.OrderStatusDelivered, false},
		{model.OrderStatusCancelled, false},
	}
	for _, tc := range cases {
		o := model.Order{Status: tc.status}
		assert.Equal(t, tc.want, o.Cancellable(), string(tc.status))
	}
}
