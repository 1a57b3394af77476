package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is single-use: Active flips to false exactly once, inside the
// transaction of the order that consumes it.
type Coupon struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	Active          bool            `gorm:"default:true" json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}
