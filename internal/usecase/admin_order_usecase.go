package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

// 注文ステータスの許可された遷移。終端（DELIVERED/CANCELLED）からは動かせない。
var orderStatusTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type AdminOrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	audit      *AuditRecorder
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	audit *AuditRecorder,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, orderItems: orderItems, audit: audit}
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Items: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (u *AdminOrderUsecase) GetDetail(ctx context.Context, orderID int64) (OrderDetailOutput, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderDetailOutput{Order: order, Items: items}, nil
}

type UpdateOrderStatusInput struct {
	Status         string
	TrackingNumber string
}

// UpdateStatusは遷移表に従ってステータスを進める。
// CANCELLEDへ落とすときは在庫を戻し、支払い済みならREFUNDEDにする。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminUserID, orderID int64, in UpdateOrderStatusInput, meta RequestMeta) error {
	newStatus := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch newStatus {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return NewHTTPError(http.StatusBadRequest, "unknown order status")
	}

	var before model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return err
		}
		before = order

		if !transitionAllowed(order.Status, newStatus) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot change order status from %s to %s", order.Status, newStatus))
		}

		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := r.Inventory().IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if order.PaymentStatus == model.PaymentStatusPaid {
				if err := r.Orders().UpdatePaymentStatus(ctx, orderID, model.PaymentStatusRefunded); err != nil {
					return err
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return err
		}

		if tn := strings.TrimSpace(in.TrackingNumber); tn != "" && newStatus == model.OrderStatusShipped {
			if err := r.Orders().SetTrackingNumber(ctx, orderID, tn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "failed to update order status")
	}

	u.audit.Record(ctx, &adminUserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		fmt.Sprintf("order %s status %s -> %s", before.OrderNumber, before.Status, newStatus), meta)

	return nil
}

// ダッシュボードの集計値。
type DashboardOutput struct {
	OrdersByStatus map[model.OrderStatus]int64 `json:"orders_by_status"`
	TotalRevenue   int64                       `json:"total_revenue"`
}

type DashboardUsecase struct {
	orders repo.OrderRepository
}

func NewDashboardUsecase(orders repo.OrderRepository) *DashboardUsecase {
	return &DashboardUsecase{orders: orders}
}

func (u *DashboardUsecase) Get(ctx context.Context) (DashboardOutput, error) {
	counts, err := u.orders.CountByStatus(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	revenue, err := u.orders.SumPaidAmount(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return DashboardOutput{OrdersByStatus: counts, TotalRevenue: revenue}, nil
}
