package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

// Stripe PaymentIntentsで同期回収する。
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, in ChargeInput) (ChargeResult, error) {
	if in.PaymentMethodID == "" {
		return ChargeResult{}, fmt.Errorf("%w: missing payment method", ErrDeclined)
	}

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(in.Amount),
		Currency:      stripe.String(strings.ToLower(in.Currency)),
		PaymentMethod: stripe.String(in.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		//リダイレクト型の決済手段は受けない（同期回収のみ）
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		ReceiptEmail: stripe.String(in.Email),
	}
	params.AddMetadata("order_number", in.OrderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			//カード拒否などはユーザー起因として扱う
			return ChargeResult{}, fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		}
		return ChargeResult{}, err
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return ChargeResult{}, fmt.Errorf("%w: intent status %s", ErrDeclined, pi.Status)
	}

	return ChargeResult{PaymentID: pi.ID, Captured: true}, nil
}
