package model

import "time"

// カートの明細。(user, product, size, color) の組で一意。
// 価格スナップショットは持たない。確定時の商品価格がOrderItemに凍結される。
type CartItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64  `gorm:"not null;index;uniqueIndex:uniq_cart_variant" json:"user_id"`
	ProductID int64  `gorm:"not null;index;uniqueIndex:uniq_cart_variant" json:"product_id"`
	Quantity  int64  `gorm:"not null;default:1" json:"quantity"`
	Size      string `gorm:"type:varchar(10);uniqueIndex:uniq_cart_variant" json:"size"`
	Color     string `gorm:"type:varchar(50);uniqueIndex:uniq_cart_variant" json:"color"`

	AddedAt time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}
