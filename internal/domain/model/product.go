package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 価格はすべてpaisa（最小通貨単位）のint64で持つ。
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`

	//セール表示用の元値。Priceより大きいときだけ意味を持つ。
	OriginalPrice *int64 `json:"original_price,omitempty"`

	SKU   string `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	Stock int64  `gorm:"not null;default:0" json:"stock"`

	//カンマ区切り（"S,M,L" / "Red,Blue"）
	Sizes  string `gorm:"type:varchar(200)" json:"sizes"`
	Colors string `gorm:"type:varchar(200)" json:"colors"`

	Material         string `gorm:"type:varchar(100)" json:"material"`
	CareInstructions string `gorm:"type:text" json:"care_instructions"`

	IsFeatured   bool `gorm:"not null;default:false" json:"is_featured"`
	IsNewArrival bool `gorm:"not null;default:false" json:"is_new_arrival"`
	IsBestSeller bool `gorm:"not null;default:false" json:"is_best_seller"`
	IsOnSale     bool `gorm:"not null;default:false" json:"is_on_sale"`
	IsActive     bool `gorm:"not null;default:false" json:"is_active"`

	Categories []Category `gorm:"many2many:product_categories" json:"categories,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

func (p *Product) SizeList() []string {
	return splitCSV(p.Sizes)
}

func (p *Product) ColorList() []string {
	return splitCSV(p.Colors)
}

// OriginalPriceからの割引率（%）。セールでなければ0。
func (p *Product) DiscountPercentage() int64 {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return (*p.OriginalPrice - p.Price) * 100 / *p.OriginalPrice
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
