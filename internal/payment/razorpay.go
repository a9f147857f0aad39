package payment

import (
	"context"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpayは注文（Order）を作って返すだけで、回収はクライアント側で続く。
// そのためCapturedは常にfalse。
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) Charge(ctx context.Context, in ChargeInput) (ChargeResult, error) {
	data := map[string]interface{}{
		"amount":          in.Amount,
		"currency":        strings.ToUpper(in.Currency),
		"receipt":         in.OrderNumber,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"order_number":   in.OrderNumber,
			"customer_email": in.Email,
		},
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("%w: %v", ErrDeclined, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return ChargeResult{}, fmt.Errorf("%w: order id missing in response", ErrDeclined)
	}

	return ChargeResult{PaymentID: id, Captured: false}, nil
}
