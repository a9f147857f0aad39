package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"dreamdrape/internal/domain/model"
	"dreamdrape/internal/events"
	repo "dreamdrape/internal/repository"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
	publisher  events.Publisher
	audit      *AuditRecorder
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	publisher events.Publisher,
	audit *AuditRecorder,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		cartItems:  cartItems,
		products:   products,
		publisher:  publisher,
		audit:      audit,
	}
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderListOutput{Items: orders, Total: total, Page: page, Limit: limit}, nil
}

type OrderDetailOutput struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// 他人の注文は存在ごと隠す（403ではなく404）。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID, orderID int64) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return OrderDetailOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OrderDetailOutput{Order: order, Items: items}, nil
}

// CancelMyOrderはPENDING/CONFIRMEDの注文だけ取り消す。
// 明細分の在庫を戻し、支払い済みならREFUNDEDへ。全体が1トランザクション。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID, orderID int64, meta RequestMeta) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var cancelled model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		//2回目のキャンセルはここで止まる（CANCELLEDはCancellableでない）
		if !order.Cancellable() {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Inventory().IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return err
		}
		if order.PaymentStatus == model.PaymentStatusPaid {
			if err := r.Orders().UpdatePaymentStatus(ctx, orderID, model.PaymentStatusRefunded); err != nil {
				return err
			}
		}

		cancelled = order
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "failed to cancel order")
	}

	u.audit.Record(ctx, &userID, model.AuditActionCancelOrder, model.AuditResourceOrder, orderID,
		"order "+cancelled.OrderNumber+" cancelled by customer", meta)

	if err := u.publisher.PublishOrderEvent(events.OrderEvent{
		Type:        "order.cancelled",
		OrderID:     orderID,
		OrderNumber: cancelled.OrderNumber,
		UserID:      userID,
		TotalAmount: cancelled.TotalAmount,
		OccurredAt:  time.Now(),
	}); err != nil {
		log.Printf("order event publish failed: order=%s err=%v", cancelled.OrderNumber, err)
	}

	return nil
}

type ReorderOutput struct {
	AddedItems   int64 `json:"added_items"`
	SkippedItems int64 `json:"skipped_items"`
}

// Reorderは過去注文の明細をカートへ戻す。
// 販売終了の商品は黙ってスキップし、在庫を超える数量は在庫数まで切り詰める。
func (u *OrderUsecase) Reorder(ctx context.Context, userID, orderID int64) (ReorderOutput, error) {
	if userID <= 0 {
		return ReorderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return ReorderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return ReorderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return ReorderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return ReorderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out ReorderOutput
	for _, item := range items {
		p, err := u.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			out.SkippedItems++
			continue
		}
		if err != nil {
			return ReorderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive || p.Stock <= 0 {
			out.SkippedItems++
			continue
		}

		qty := item.Quantity
		if qty > p.Stock {
			qty = p.Stock
		}

		err = u.cartItems.UpsertVariant(ctx, model.CartItem{
			UserID:    userID,
			ProductID: item.ProductID,
			Quantity:  qty,
			Size:      item.Size,
			Color:     item.Color,
		})
		if err != nil {
			return ReorderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.AddedItems++
	}
	return out, nil
}
