package model

import "time"

// 注文明細。価格・商品名は確定時点のスナップショット。
// カタログ側の価格が後から変わっても過去の注文は変わらない。
type OrderItem struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64  `gorm:"not null;index" json:"order_id"`
	ProductID           int64  `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string `gorm:"type:varchar(200);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64  `gorm:"not null" json:"unit_price_snapshot"`
	Quantity            int64  `gorm:"not null" json:"quantity"`
	Size                string `gorm:"type:varchar(10)" json:"size"`
	Color               string `gorm:"type:varchar(50)" json:"color"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (it *OrderItem) Total() int64 {
	return it.UnitPriceSnapshot * it.Quantity
}
