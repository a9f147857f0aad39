package repository_test

import (
	"testing"
	"time"

	"dreamdrape/internal/domain/model"
	infra "dreamdrape/internal/infra/repository"
	repo "dreamdrape/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrderRaw(t *testing.T, db *gorm.DB, userID int64, status model.OrderStatus, payment model.PaymentStatus, total int64) model.Order {
	t.Helper()
	o := model.Order{
		UserID:          userID,
		OrderNumber:     model.NewOrderNumber(time.Now()),
		TotalAmount:     total,
		Status:          status,
		PaymentStatus:   payment,
		PaymentMethod:   "cod",
		ShippingAddress: "12 MG Road",
		ShippingCity:    "Mumbai",
		ShippingState:   "MH",
		ShippingPincode: "400001",
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func TestOrder_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	orders := infra.NewOrderGormRepository(db)
	u := seedUser(t, db, "alice")

	id, err := orders.Create(testCtx(), model.Order{
		UserID:          u.ID,
		OrderNumber:     "DD20260829ABCD1234",
		TotalAmount:     179800,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   "cod",
		ShippingAddress: "12 MG Road",
		ShippingCity:    "Mumbai",
		ShippingState:   "MH",
		ShippingPincode: "400001",
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := orders.FindByOrderNumber(testCtx(), "DD20260829ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(179800), got.TotalAmount)

	_, err = orders.FindByOrderNumber(testCtx(), "DD00000000XXXXXXXX")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrder_ListByUserID_Paginates(t *testing.T) {
	db := newTestDB(t)
	orders := infra.NewOrderGormRepository(db)
	u := seedUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		seedOrderRaw(t, db, u.ID, model.OrderStatusPending, model.PaymentStatusPending, 1000)
	}

	items, total, err := orders.ListByUserID(testCtx(), u.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)
	//新しい順
	assert.Greater(t, items[0].ID, items[1].ID)
}

func TestOrder_CountByStatus_And_SumPaid(t *testing.T) {
	db := newTestDB(t)
	orders := infra.NewOrderGormRepository(db)
	u := seedUser(t, db, "alice")

	seedOrderRaw(t, db, u.ID, model.OrderStatusPending, model.PaymentStatusPending, 1000)
	seedOrderRaw(t, db, u.ID, model.OrderStatusDelivered, model.PaymentStatusPaid, 2000)
	seedOrderRaw(t, db, u.ID, model.OrderStatusDelivered, model.PaymentStatusPaid, 3000)
	seedOrderRaw(t, db, u.ID, model.OrderStatusCancelled, model.PaymentStatusRefunded, 4000)

	counts, err := orders.CountByStatus(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.OrderStatusPending])
	assert.Equal(t, int64(2), counts[model.OrderStatusDelivered])
	assert.Equal(t, int64(1), counts[model.OrderStatusCancelled])

	//REFUNDEDは売上に含めない
	sum, err := orders.SumPaidAmount(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), sum)
}

func TestOrder_SumPaidAmount_Empty(t *testing.T) {
	db := newTestDB(t)
	orders := infra.NewOrderGormRepository(db)

	sum, err := orders.SumPaidAmount(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
}

func TestOrder_ListAdmin_FilterByStatus(t *testing.T) {
	db := newTestDB(t)
	orders := infra.NewOrderGormRepository(db)
	u := seedUser(t, db, "alice")

	seedOrderRaw(t, db, u.ID, model.OrderStatusPending, model.PaymentStatusPending, 1000)
	seedOrderRaw(t, db, u.ID, model.OrderStatusShipped, model.PaymentStatusPaid, 2000)

	items, total, err := orders.ListAdmin(testCtx(), repo.AdminOrderListFilter{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, model.OrderStatusShipped, items[0].Status)
}
