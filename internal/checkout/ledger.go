package checkout

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/novahogar2025-gif/Backend-final/internal/models"
	"github.com/novahogar2025-gif/Backend-final/internal/pricing"
)

// The ledger functions below perform the writes of the atomic phase. Every
// one of them takes the caller's transaction handle and never falls back to
// the shared pool, so atomicity stays under the orchestrator's control.

func insertOrder(tx *gorm.DB, order *models.Order) error {
	if err := tx.Create(order).Error; err != nil {
		return &PersistenceError{Op: "insert order", Err: err}
	}
	return nil
}

func insertOrderLines(tx *gorm.DB, orderID uint, lines []pricing.Line) error {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			OrderID:     orderID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal().Round(2),
		})
	}
	if err := tx.CreateInBatches(&items, len(items)).Error; err != nil {
		return &PersistenceError{Op: "insert order lines", Err: err}
	}
	return nil
}

func insertSaleRecords(tx *gorm.DB, orderID uint, lines []pricing.Line) error {
	records := make([]models.SaleRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, models.SaleRecord{
			OrderID:  orderID,
			Category: line.Category,
			Amount:   line.Subtotal().Round(2),
		})
	}
	if err := tx.CreateInBatches(&records, len(records)).Error; err != nil {
		return &PersistenceError{Op: "insert sale records", Err: err}
	}
	return nil
}

// decrementStock re-checks availability at write time: the UPDATE only
// matches while enough stock remains, and zero affected rows means another
// order got there first. The pre-check read alone cannot close that race.
func decrementStock(tx *gorm.DB, productID uint, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_on_hand >= ?", productID, quantity).
		UpdateColumn("stock_on_hand", gorm.Expr("stock_on_hand - ?", quantity))
	if res.Error != nil {
		return &PersistenceError{Op: "decrement stock", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &StockConflictError{ProductID: productID}
	}
	return nil
}

// consumeCoupon deactivates by id with an active guard, so two orders
// racing for the same coupon cannot both consume it.
func consumeCoupon(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND active = ?", couponID, true).
		Update("active", false)
	if res.Error != nil {
		return &PersistenceError{Op: "consume coupon", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrInvalidCoupon
	}
	return nil
}

func clearCart(tx *gorm.DB, userID uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return &PersistenceError{Op: "clear cart", Err: err}
	}
	return nil
}

func recordIdempotencyKey(tx *gorm.DB, key string, userID, orderID uint) error {
	err := tx.Create(&models.IdempotencyKey{Key: key, UserID: userID, OrderID: orderID}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return errIdempotencyRace
		}
		return &PersistenceError{Op: "record idempotency key", Err: err}
	}
	return nil
}

// GetOrderByID loads an order with its line items.
func GetOrderByID(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersForUser returns the user's order history, newest first.
func ListOrdersForUser(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
