package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OrderNumber   string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID        uint   `gorm:"index;not null" json:"user_id"`
	CustomerName  string `gorm:"not null" json:"customer_name"`
	Address       string `gorm:"not null" json:"address"`
	City          string `gorm:"not null" json:"city"`
	PostalCode    string `gorm:"not null" json:"postal_code"`
	Phone         string `gorm:"not null" json:"phone"`
	Country       string `gorm:"not null" json:"country"`
	PaymentMethod string `gorm:"not null" json:"payment_method"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	CouponID *uint `gorm:"index" json:"coupon_id,omitempty"`
	// Whether the invoice email went out. Informational only; a failed
	// notification never invalidates the order.
	Notified  bool        `gorm:"default:false" json:"notified"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots product name and unit price at commit time, so later
// catalog edits never change a historical invoice.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// SaleRecord is the denormalized per-category sales row backing the admin
// dashboard charts. Written in the same transaction as the order items.
type SaleRecord struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	Category  string          `gorm:"index;not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// IdempotencyKey maps a client-supplied checkout key to the order it
// created. The row is inserted inside the order transaction, so a retried
// request either finds it and replays the response, or loses the unique
// race and replays after re-reading. Keys are scoped per user: one user's
// key can never replay another user's order.
type IdempotencyKey struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex:idx_idem_user_key;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_idem_user_key;not null"`
	OrderID   uint      `gorm:"not null"`
	CreatedAt time.Time
}
