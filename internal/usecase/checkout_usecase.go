package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"dreamdrape/internal/domain/model"
	"dreamdrape/internal/events"
	"dreamdrape/internal/payment"
	repo "dreamdrape/internal/repository"
)

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	gateways  payment.Gateways
	publisher events.Publisher
	audit     *AuditRecorder
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	gateways payment.Gateways,
	publisher events.Publisher,
	audit *AuditRecorder,
) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, users: users, gateways: gateways, publisher: publisher, audit: audit}
}

type PlaceOrderInput struct {
	PaymentMethod   string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingPincode string
	ShippingCountry string
	ShippingPhone   string
	Notes           string

	//Stripeのみ
	PaymentMethodID string

	Meta RequestMeta
}

type PlaceOrderOutput struct {
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	//Razorpayのとき：クライアントが決済を続けるための参照ID
	PaymentID string `json:"payment_id,omitempty"`
}

// PlaceOrderはカートの全行を1つの注文に確定する。
// 在庫の検証・減算、決済、注文作成、カートクリアは単一トランザクション。
// 決済を含めてどこかで失敗したら全体がロールバックされる。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	method, ok := payment.ParseMethod(in.PaymentMethod)
	if !ok {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "unsupported payment method")
	}
	if method == payment.MethodStripe && in.PaymentMethodID == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "payment_method_id is required for stripe")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	var out PlaceOrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//行ごとに現在価格でスナップショットを作り、在庫を条件付きで減算する
		var total int64
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			p, err := r.Products().FindByID(ctx, item.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("product %d is no longer available", item.ProductID))
			}
			if err != nil {
				return err
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("%s is no longer available", p.Name))
			}

			decreased, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !decreased {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for %s", p.Name))
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            item.Quantity,
				Size:                item.Size,
				Color:               item.Color,
			})
			total += p.Price * item.Quantity
		}

		orderNumber := model.NewOrderNumber(now)

		//決済。失敗したら在庫減算ごとロールバック。
		paymentID := ""
		paymentStatus := model.PaymentStatusPending
		if method != payment.MethodCOD {
			gw, err := u.gateways.For(method)
			if err != nil {
				return NewHTTPError(http.StatusBadRequest, "unsupported payment method")
			}
			result, err := gw.Charge(ctx, payment.ChargeInput{
				Amount:          total,
				Currency:        "INR",
				OrderNumber:     orderNumber,
				Email:           user.Email,
				PaymentMethodID: in.PaymentMethodID,
			})
			if errors.Is(err, payment.ErrDeclined) {
				return NewHTTPError(http.StatusPaymentRequired, "payment failed: "+err.Error())
			}
			if err != nil {
				return NewHTTPError(http.StatusPaymentRequired, "payment failed")
			}
			paymentID = result.PaymentID
			if result.Captured {
				paymentStatus = model.PaymentStatusPaid
			}
		}

		country := strings.TrimSpace(in.ShippingCountry)
		if country == "" {
			country = "India"
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			OrderNumber:     orderNumber,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			PaymentStatus:   paymentStatus,
			PaymentMethod:   string(method),
			PaymentID:       paymentID,
			ShippingAddress: strings.TrimSpace(in.ShippingAddress),
			ShippingCity:    strings.TrimSpace(in.ShippingCity),
			ShippingState:   strings.TrimSpace(in.ShippingState),
			ShippingPincode: strings.TrimSpace(in.ShippingPincode),
			ShippingCountry: country,
			ShippingPhone:   strings.TrimSpace(in.ShippingPhone),
			Notes:           strings.TrimSpace(in.Notes),
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		out = PlaceOrderOutput{
			OrderID:       orderID,
			OrderNumber:   orderNumber,
			TotalAmount:   total,
			Status:        string(model.OrderStatusPending),
			PaymentStatus: string(paymentStatus),
			PaymentID:     paymentID,
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return PlaceOrderOutput{}, err
		}
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to place order")
	}

	//コミット後の副作用。失敗しても注文は成立している。
	u.audit.Record(ctx, &userID, model.AuditActionPlaceOrder, model.AuditResourceOrder, out.OrderID,
		fmt.Sprintf("order %s total %d via %s", out.OrderNumber, out.TotalAmount, method), in.Meta)

	if err := u.publisher.PublishOrderEvent(events.OrderEvent{
		Type:        "order.placed",
		OrderID:     out.OrderID,
		OrderNumber: out.OrderNumber,
		UserID:      userID,
		TotalAmount: out.TotalAmount,
		OccurredAt:  now,
	}); err != nil {
		log.Printf("order event publish failed: order=%s err=%v", out.OrderNumber, err)
	}

	return out, nil
}
