package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart means the user tried to check out with nothing in the
	// cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidCoupon covers a missing, inactive, or concurrently
	// consumed coupon code. An order is never created with a coupon that
	// cannot be honored.
	ErrInvalidCoupon = errors.New("coupon is invalid or inactive")

	errIdempotencyRace = errors.New("idempotency key already recorded")
)

// ValidationError reports a missing required shipping or payment field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InsufficientStockError is the fail-fast pre-check result: the cart asks
// for more units than the catalog currently has. Nothing has been written
// when it is returned.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// StockConflictError means a concurrent checkout won the race for the last
// units between our pre-check read and the conditional decrement. The whole
// transaction has been rolled back; the client may retry.
type StockConflictError struct {
	ProductID uint
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict on product %d: concurrently sold out", e.ProductID)
}

// PersistenceError wraps an unexpected store failure inside the atomic
// phase. The transaction is always rolled back before it surfaces.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkout persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
