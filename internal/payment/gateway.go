package payment

import (
	"context"
	"errors"
	"fmt"
)

type Method string

const (
	MethodCOD      Method = "cod"
	MethodStripe   Method = "stripe"
	MethodRazorpay Method = "razorpay"
)

func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodCOD, MethodStripe, MethodRazorpay:
		return Method(s), true
	default:
		return "", false
	}
}

// ゲートウェイ側の拒否（カード拒否・不正な支払いメソッド等）。
// ユーザーに提示してよいエラー。
var ErrDeclined = errors.New("payment declined")

type ChargeInput struct {
	//最小通貨単位（paisa）
	Amount      int64
	Currency    string
	OrderNumber string
	Email       string

	//Stripeのみ：クライアントで作ったPaymentMethodのID
	PaymentMethodID string
}

type ChargeResult struct {
	//ゲートウェイ側の参照ID（Stripe PaymentIntent / Razorpay Order）
	PaymentID string
	//同期的に回収が完了したか。falseならクライアント側で決済が続く。
	Captured bool
}

// 決済ゲートウェイの約束。実装はStripe/Razorpay。
// CODはゲートウェイを通らない。
type Gateway interface {
	Charge(ctx context.Context, in ChargeInput) (ChargeResult, error)
}

// メソッド別ゲートウェイの束。
type Gateways map[Method]Gateway

func (g Gateways) For(m Method) (Gateway, error) {
	gw, ok := g[m]
	if !ok {
		return nil, fmt.Errorf("unsupported payment method: %s", m)
	}
	return gw, nil
}
