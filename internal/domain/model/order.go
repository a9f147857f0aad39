package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`
	OrderNumber string `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`

	//確定時点のOrderItem合計のスナップショット
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;index;default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentID     string        `gorm:"type:varchar(100)" json:"payment_id,omitempty"`

	//配送先（フォーム値をそのまま凍結）
	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"type:varchar(50);not null" json:"shipping_city"`
	ShippingState   string `gorm:"type:varchar(50);not null" json:"shipping_state"`
	ShippingPincode string `gorm:"type:varchar(10);not null" json:"shipping_pincode"`
	ShippingCountry string `gorm:"type:varchar(50);default:'India'" json:"shipping_country"`
	ShippingPhone   string `gorm:"type:varchar(15)" json:"shipping_phone"`

	TrackingNumber string `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Cancellableはユーザーキャンセルできるステータスなら真。
// SHIPPED/DELIVERED/CANCELLEDは終端扱い。
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// NewOrderNumberは "DD" + 日付 + uuid先頭8桁（大文字）。
func NewOrderNumber(now time.Time) string {
	return "DD" + now.Format("20060102") + strings.ToUpper(uuid.NewString()[:8])
}
