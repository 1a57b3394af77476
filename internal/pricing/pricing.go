package pricing

import (
	"github.com/shopspring/decimal"

	config "github.com/novahogar2025-gif/Backend-final/configs"
)

var hundred = decimal.NewFromInt(100)

// Line is one cart position priced at the product's current catalog price.
// The subtotal is always recomputed from quantity and unit price here; the
// stored value is snapshotted into the order item only after computation.
type Line struct {
	ProductID uint
	Name      string
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals prices a cart. Pure: no I/O, same inputs always give the
// same totals.
//
// Policy (fixed; the legacy revisions disagreed among themselves):
//   - the discount base is the pre-tax subtotal
//   - tax applies to the discounted subtotal, never to shipping
//   - shipping is a flat fee, waived above the free-shipping threshold
//
// Each component is rounded to 2 decimal places exactly once; the total is
// the sum of the already-rounded components, so persisted rows always add
// up.
func ComputeTotals(lines []Line, discountPercent decimal.Decimal, cfg config.CheckoutConfig) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if discountPercent.IsPositive() {
		discount = subtotal.Mul(discountPercent).Div(hundred).Round(2)
	}

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax := taxable.Mul(cfg.TaxRate).Round(2)

	shipping := cfg.ShippingFee.Round(2)
	if cfg.FreeShippingEnabled && subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    taxable.Add(tax).Add(shipping),
	}
}
