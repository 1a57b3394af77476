package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product keeps two stock columns: StockInitial is the quantity the admin
// registered, StockOnHand is what is left to sell. StockOnHand is only ever
// decremented through the conditional update in the checkout transaction,
// so it can never go below zero.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"uniqueIndex;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description  string          `json:"description"`
	Category     string          `gorm:"index;not null" json:"category"`
	StockOnHand  int             `gorm:"not null" json:"stock_on_hand"`
	StockInitial int             `gorm:"not null" json:"stock_initial"`
	ImageURL     string          `json:"image_url"`
	// Extra gallery images, semicolon separated URLs.
	ExtraImageURLs string    `json:"extra_image_urls"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
