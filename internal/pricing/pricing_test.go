package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func defaultConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		TaxRate:     dec("0.16"),
		ShippingFee: dec("150.00"),
	}
}

func TestComputeTotals(t *testing.T) {

	cart := []pricing.Line{
		{ProductID: 1, Name: "Sofá Milán", Category: "Salas", Quantity: 2, UnitPrice: dec("100.00")},
	}

	t.Run("no coupon", func(t *testing.T) {
		totals := pricing.ComputeTotals(cart, decimal.Zero, defaultConfig())

		assert.True(t, totals.Subtotal.Equal(dec("200.00")), "subtotal: %s", totals.Subtotal)
		assert.True(t, totals.Discount.IsZero())
		assert.True(t, totals.Tax.Equal(dec("32.00")), "tax: %s", totals.Tax)
		assert.True(t, totals.Shipping.Equal(dec("150.00")))
		assert.True(t, totals.Total.Equal(dec("382.00")), "total: %s", totals.Total)
	})

	t.Run("10 percent coupon taxes the discounted subtotal", func(t *testing.T) {
		totals := pricing.ComputeTotals(cart, dec("10"), defaultConfig())

		assert.True(t, totals.Discount.Equal(dec("20.00")))
		assert.True(t, totals.Tax.Equal(dec("28.80")), "tax: %s", totals.Tax)
		assert.True(t, totals.Total.Equal(dec("358.80")), "total: %s", totals.Total)
	})

	t.Run("100 percent coupon never goes negative", func(t *testing.T) {
		totals := pricing.ComputeTotals(cart, dec("100"), defaultConfig())

		assert.True(t, totals.Discount.Equal(dec("200.00")))
		assert.True(t, totals.Tax.IsZero())
		assert.True(t, totals.Total.Equal(dec("150.00")))
	})

	t.Run("free shipping above threshold", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.FreeShippingEnabled = true
		cfg.FreeShippingThreshold = dec("200.00")

		totals := pricing.ComputeTotals(cart, decimal.Zero, cfg)

		assert.True(t, totals.Shipping.IsZero())
		assert.True(t, totals.Total.Equal(dec("232.00")))
	})

	t.Run("threshold disabled by default", func(t *testing.T) {
		totals := pricing.ComputeTotals(cart, decimal.Zero, defaultConfig())
		assert.True(t, totals.Shipping.Equal(dec("150.00")))
	})

	t.Run("empty cart prices to shipping only", func(t *testing.T) {
		totals := pricing.ComputeTotals(nil, decimal.Zero, defaultConfig())

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Tax.IsZero())
		assert.True(t, totals.Total.Equal(dec("150.00")))
	})

	t.Run("rounding happens once per component", func(t *testing.T) {
		// 3 * 33.33 = 99.99; 5% discount = 4.9995 -> 5.00 rounded once.
		lines := []pricing.Line{
			{ProductID: 2, Name: "Mesa Lateral", Category: "Salas", Quantity: 3, UnitPrice: dec("33.33")},
		}
		totals := pricing.ComputeTotals(lines, dec("5"), defaultConfig())

		assert.True(t, totals.Subtotal.Equal(dec("99.99")))
		assert.True(t, totals.Discount.Equal(dec("5.00")), "discount: %s", totals.Discount)
		// tax = 0.16 * 94.99 = 15.1984 -> 15.20
		assert.True(t, totals.Tax.Equal(dec("15.20")), "tax: %s", totals.Tax)
		assert.True(t, totals.Total.Equal(dec("260.19")), "total: %s", totals.Total)
	})

	t.Run("deterministic", func(t *testing.T) {
		a := pricing.ComputeTotals(cart, dec("10"), defaultConfig())
		b := pricing.ComputeTotals(cart, dec("10"), defaultConfig())

		assert.Equal(t, a.Total.String(), b.Total.String())
		assert.Equal(t, a.Tax.String(), b.Tax.String())
	})
}
