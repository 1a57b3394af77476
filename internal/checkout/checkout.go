package checkout

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
	"github.com/novahogar2025-gif/Backend-final/internal/pricing"
)

// InvoiceRenderer produces the purchase-note PDF for a committed order.
type InvoiceRenderer interface {
	Render(order *models.Order) ([]byte, error)
}

// InvoiceSender delivers the invoice to the customer. Failures here are
// best-effort: the order stays committed either way.
type InvoiceSender interface {
	SendInvoice(to, name string, orderID uint, pdf []byte) error
}

// Service turns a user's cart into a durable order. All writes of one
// checkout happen in a single transaction; invoice and email run after
// commit and only shape the response.
type Service struct {
	db      *gorm.DB
	cfg     config.CheckoutConfig
	renders InvoiceRenderer
	mailer  InvoiceSender
}

func NewService(db *gorm.DB, cfg config.CheckoutConfig, renders InvoiceRenderer, mailer InvoiceSender) *Service {
	return &Service{db: db, cfg: cfg, renders: renders, mailer: mailer}
}

type Request struct {
	UserID        uint
	CustomerName  string `json:"customer_name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Phone         string `json:"phone"`
	Country       string `json:"country"`
	PaymentMethod string `json:"payment_method"`
	CouponCode    string `json:"coupon_code"`
	// Optional client-supplied key; a retried request with the same key
	// returns the order it already created instead of ordering twice.
	IdempotencyKey string `json:"-"`
}

type Result struct {
	OrderID  uint           `json:"order_id"`
	Totals   pricing.Totals `json:"totals"`
	Notified bool           `json:"notified"`
	Replayed bool           `json:"replayed,omitempty"`
}

func (r Request) validate() error {
	required := []struct {
		name, value string
	}{
		{"customer_name", r.CustomerName},
		{"address", r.Address},
		{"city", r.City},
		{"postal_code", r.PostalCode},
		{"phone", r.Phone},
		{"country", r.Country},
		{"payment_method", r.PaymentMethod},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{Field: field.name}
		}
	}
	return nil
}

// Checkout runs the full workflow: validate, price, commit atomically,
// then notify best-effort.
func (s *Service) Checkout(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	db := s.db.WithContext(ctx)

	if req.IdempotencyKey != "" {
		if res, ok := s.replay(db, req.IdempotencyKey, req.UserID); ok {
			return res, nil
		}
	}

	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		return Result{}, &PersistenceError{Op: "load user", Err: err}
	}

	lines, err := loadCartLines(db, req.UserID)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}

	// Fail fast before any write. The conditional decrement inside the
	// transaction re-checks, so this read is advisory only.
	for _, line := range lines {
		if line.available < line.Quantity {
			return Result{}, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.available,
			}
		}
	}

	var coupon *models.Coupon
	discount := decimal.Zero
	if req.CouponCode != "" {
		coupon, err = findActiveCoupon(db, req.CouponCode)
		if err != nil {
			return Result{}, err
		}
		discount = coupon.DiscountPercent
	}

	priced := make([]pricing.Line, len(lines))
	for i, line := range lines {
		priced[i] = line.Line
	}
	totals := pricing.ComputeTotals(priced, discount, s.cfg)

	order := models.Order{
		OrderNumber:    uuid.NewString(),
		UserID:         req.UserID,
		CustomerName:   req.CustomerName,
		Address:        req.Address,
		City:           req.City,
		PostalCode:     req.PostalCode,
		Phone:          req.Phone,
		Country:        req.Country,
		PaymentMethod:  req.PaymentMethod,
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		ShippingCost:   totals.Shipping,
		DiscountAmount: totals.Discount,
		Total:          totals.Total,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := insertOrder(tx, &order); err != nil {
			return err
		}
		if err := insertOrderLines(tx, order.ID, priced); err != nil {
			return err
		}
		for _, line := range priced {
			if err := decrementStock(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := insertSaleRecords(tx, order.ID, priced); err != nil {
			return err
		}
		if coupon != nil {
			if err := consumeCoupon(tx, coupon.ID); err != nil {
				return err
			}
		}
		if err := clearCart(tx, req.UserID); err != nil {
			return err
		}
		if req.IdempotencyKey != "" {
			return recordIdempotencyKey(tx, req.IdempotencyKey, req.UserID, order.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errIdempotencyRace) {
			if res, ok := s.replay(db, req.IdempotencyKey, req.UserID); ok {
				return res, nil
			}
		}
		return Result{}, err
	}

	notified := s.notify(db, &order, &user)

	return Result{OrderID: order.ID, Totals: totals, Notified: notified}, nil
}

// ResendInvoice re-derives the purchase note from the committed order and
// sends it again. Safe to call any number of times.
func (s *Service) ResendInvoice(ctx context.Context, orderID uint) error {
	db := s.db.WithContext(ctx)

	order, err := GetOrderByID(db, orderID)
	if err != nil {
		return err
	}

	var user models.User
	if err := db.First(&user, order.UserID).Error; err != nil {
		return err
	}

	pdf, err := s.renders.Render(order)
	if err != nil {
		return err
	}
	if err := s.mailer.SendInvoice(user.Email, order.CustomerName, order.ID, pdf); err != nil {
		return err
	}

	if !order.Notified {
		if err := db.Model(order).Update("notified", true).Error; err != nil {
			log.Printf("invoice for order %d was resent but the notified flag could not be saved: %v", order.ID, err)
		}
	}
	return nil
}

// notify runs the post-commit phase. Any failure is logged and reported
// through the Notified flag; it never unwinds the order.
func (s *Service) notify(db *gorm.DB, order *models.Order, user *models.User) bool {
	full, err := GetOrderByID(db, order.ID)
	if err != nil {
		log.Printf("order %d committed but could not be reloaded for the invoice: %v", order.ID, err)
		return false
	}

	pdf, err := s.renders.Render(full)
	if err != nil {
		log.Printf("invoice render failed for order %d (the order is saved): %v", order.ID, err)
		return false
	}

	if err := s.mailer.SendInvoice(user.Email, order.CustomerName, order.ID, pdf); err != nil {
		log.Printf("invoice email failed for order %d to %s (the order is saved): %v", order.ID, user.Email, err)
		return false
	}

	if err := db.Model(order).Update("notified", true).Error; err != nil {
		log.Printf("invoice for order %d was sent but the notified flag could not be saved: %v", order.ID, err)
	}
	return true
}

// replay only matches a key recorded by the same user; another user
// sending the same string gets a fresh checkout, never someone else's
// order.
func (s *Service) replay(db *gorm.DB, key string, userID uint) (Result, bool) {
	var record models.IdempotencyKey
	if err := db.Where("key = ? AND user_id = ?", key, userID).First(&record).Error; err != nil {
		return Result{}, false
	}

	var order models.Order
	if err := db.First(&order, record.OrderID).Error; err != nil {
		return Result{}, false
	}

	return Result{
		OrderID: order.ID,
		Totals: pricing.Totals{
			Subtotal: order.Subtotal,
			Discount: order.DiscountAmount,
			Tax:      order.Tax,
			Shipping: order.ShippingCost,
			Total:    order.Total,
		},
		Notified: order.Notified,
		Replayed: true,
	}, true
}

// cartLine pairs the priced line with the stock level read alongside it.
type cartLine struct {
	pricing.Line
	available int
}

func loadCartLines(db *gorm.DB, userID uint) ([]cartLine, error) {
	var rows []struct {
		ProductID   uint
		Quantity    int
		Name        string
		Category    string
		Price       decimal.Decimal
		StockOnHand int
	}

	err := db.Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.name, products.category, products.price, products.stock_on_hand").
		Joins("INNER JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, &PersistenceError{Op: "load cart", Err: err}
	}

	lines := make([]cartLine, len(rows))
	for i, row := range rows {
		lines[i] = cartLine{
			Line: pricing.Line{
				ProductID: row.ProductID,
				Name:      row.Name,
				Category:  row.Category,
				Quantity:  row.Quantity,
				UnitPrice: row.Price,
			},
			available: row.StockOnHand,
		}
	}
	return lines, nil
}

func findActiveCoupon(db *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("code = ? AND active = ?", code, true).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, &PersistenceError{Op: "load coupon", Err: err}
	}
	return &coupon, nil
}
