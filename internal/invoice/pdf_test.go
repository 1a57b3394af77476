package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/invoice"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

func TestRenderProducesPDF(t *testing.T) {
	renderer := invoice.NewRenderer(config.CompanyConfig{
		Name:    "Nova Hogar",
		Tagline: "Diseño y Confort para tu Hogar",
	})

	order := &models.Order{
		ID:             42,
		CustomerName:   "María Pérez",
		Address:        "Av. Reforma 123",
		City:           "CDMX",
		PostalCode:     "06600",
		Phone:          "5512345678",
		Country:        "México",
		PaymentMethod:  "tarjeta",
		Subtotal:       decimal.RequireFromString("200.00"),
		Tax:            decimal.RequireFromString("28.80"),
		ShippingCost:   decimal.RequireFromString("150.00"),
		DiscountAmount: decimal.RequireFromString("20.00"),
		Total:          decimal.RequireFromString("358.80"),
		CreatedAt:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Sofá Milán", Quantity: 2,
				UnitPrice: decimal.RequireFromString("100.00"),
				Subtotal:  decimal.RequireFromString("200.00")},
		},
	}

	pdf, err := renderer.Render(order)

	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
