package model

import "time"

// レビューは投稿時点では未承認。管理者が承認したものだけ公開される。
type Review struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index;uniqueIndex:uniq_user_product_review" json:"user_id"`
	ProductID  int64     `gorm:"not null;index;uniqueIndex:uniq_user_product_review" json:"product_id"`
	Rating     int       `gorm:"not null" json:"rating"` // 1〜5
	Comment    string    `gorm:"type:text" json:"comment"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
