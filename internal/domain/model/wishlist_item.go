package model

import "time"

type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:uniq_wishlist" json:"user_id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:uniq_wishlist" json:"product_id"`
	AddedAt   time.Time `gorm:"not null;autoCreateTime" json:"added_at"`
}
