package models

import "time"

// CartItem is transient state: it exists only between "add to cart" and
// either removal or a committed checkout, which deletes the user's items
// inside the order transaction.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
