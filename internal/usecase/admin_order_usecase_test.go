package usecase_test

import (
	"context"
	"testing"

	"dreamdrape/internal/domain/model"
	"dreamdrape/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderFixture() (*usecase.AdminOrderUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock, *InventoryRepoMock, *AuditRepoMock) {
	tx := new(TxManagerMock)
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	inventory := new(InventoryRepoMock)
	auditRepo := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		inventory:  inventory,
	}

	uc := usecase.NewAdminOrderUsecase(tx, orders, orderItems, usecase.NewAuditRecorder(auditRepo))
	return uc, tx, orders, orderItems, inventory, auditRepo
}

func TestAdminOrder_UpdateStatus_PendingToConfirmed(t *testing.T) {
	ctx := context.Background()
	uc, tx, orders, _, _, auditRepo := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, OrderNumber: "DD20260829ABCD1234", Status: model.OrderStatusPending,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusConfirmed).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.Details == "order DD20260829ABCD1234 status PENDING -> CONFIRMED"
	})).Return(nil)

	err := uc.UpdateStatus(ctx, 1, 100, usecase.UpdateOrderStatusInput{Status: "CONFIRMED"}, usecase.RequestMeta{})
	assert.NoError(t, err)

	orders.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

// 終端からの遷移は拒否
func TestAdminOrder_UpdateStatus_DeliveredIsTerminal(t *testing.T) {
	ctx := context.Background()
	uc, tx, orders, _, _, _ := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, Status: model.OrderStatusDelivered,
	}, nil)

	err := uc.UpdateStatus(ctx, 1, 100, usecase.UpdateOrderStatusInput{Status: "CONFIRMED"}, usecase.RequestMeta{})
	assertErrContains(t, err, "cannot change order status")

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// PENDINGからSHIPPEDへの飛び級は不可
func TestAdminOrder_UpdateStatus_SkipNotAllowed(t *testing.T) {
	ctx := context.Background()
	uc, tx, orders, _, _, _ := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, Status: model.OrderStatusPending,
	}, nil)

	err := uc.UpdateStatus(ctx, 1, 100, usecase.UpdateOrderStatusInput{Status: "SHIPPED"}, usecase.RequestMeta{})
	assertErrContains(t, err, "cannot change order status")
}

func TestAdminOrder_UpdateStatus_UnknownStatus(t *testing.T) {
	uc, _, _, _, _, _ := newAdminOrderFixture()

	err := uc.UpdateStatus(context.Background(), 1, 100, usecase.UpdateOrderStatusInput{Status: "PAID"}, usecase.RequestMeta{})
	assertErrContains(t, err, "unknown order status")
}

// 管理側キャンセルも在庫を戻す
func TestAdminOrder_UpdateStatus_CancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	uc, tx, orders, orderItems, inventory, auditRepo := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, OrderNumber: "DD20260829ABCD1234",
		Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid,
	}, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{ProductID: 3, Quantity: 2},
	}, nil)
	inventory.On("IncreaseStock", mock.Anything, int64(3), int64(2)).Return(nil)
	orders.On("UpdatePaymentStatus", mock.Anything, int64(100), model.PaymentStatusRefunded).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusCancelled).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.UpdateStatus(ctx, 1, 100, usecase.UpdateOrderStatusInput{Status: "CANCELLED"}, usecase.RequestMeta{})
	assert.NoError(t, err)

	inventory.AssertExpectations(t)
	orders.AssertExpectations(t)
}

// SHIPPEDにするとき追跡番号も保存
func TestAdminOrder_UpdateStatus_ShippedStoresTracking(t *testing.T) {
	ctx := context.Background()
	uc, tx, orders, _, _, auditRepo := newAdminOrderFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, Status: model.OrderStatusConfirmed,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusShipped).Return(nil)
	orders.On("SetTrackingNumber", mock.Anything, int64(100), "TRK-001").Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.UpdateStatus(ctx, 1, 100, usecase.UpdateOrderStatusInput{
		Status: "shipped", TrackingNumber: "TRK-001",
	}, usecase.RequestMeta{})
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

func TestDashboard_Get(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewDashboardUsecase(orders)

	orders.On("CountByStatus", mock.Anything).Return(map[model.OrderStatus]int64{
		model.OrderStatusPending:   3,
		model.OrderStatusDelivered: 10,
	}, nil)
	orders.On("SumPaidAmount", mock.Anything).Return(int64(1234500), nil)

	out, err := uc.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.OrdersByStatus[model.OrderStatusPending])
	assert.Equal(t, int64(1234500), out.TotalRevenue)
}
