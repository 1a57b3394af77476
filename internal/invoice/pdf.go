package invoice

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// Renderer builds the purchase-note PDF that is attached to the order
// confirmation email. Rendering is derived entirely from the committed
// order row and its snapshotted items, so the same order always produces
// the same note, no matter how often it is regenerated.
type Renderer struct {
	company config.CompanyConfig
}

func NewRenderer(company config.CompanyConfig) *Renderer {
	return &Renderer{company: company}
}

func (r *Renderer) Render(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	// Header: company on the left, order box on the right.
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(110, 10, translate(r.company.Name))
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(15, 25)
	pdf.Cell(110, 5, translate(r.company.Tagline))

	pdf.SetFillColor(249, 249, 249)
	pdf.SetDrawColor(204, 204, 204)
	pdf.Rect(130, 15, 65, 24, "FD")
	pdf.SetXY(132, 17)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Cell(60, 5, translate("FACTURA / NOTA DE COMPRA"))
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(132, 23)
	pdf.Cell(60, 4, fmt.Sprintf("N° Orden: %d", order.ID))
	pdf.SetXY(132, 28)
	pdf.Cell(60, 4, "Fecha: "+order.CreatedAt.Format("02/01/2006"))
	pdf.SetXY(132, 33)
	pdf.Cell(60, 4, translate("Método: "+order.PaymentMethod))

	// Customer block.
	pdf.SetXY(15, 45)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Detalles del Cliente:")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(15, 52)
	pdf.Cell(0, 5, translate("Nombre: "+order.CustomerName))
	pdf.SetXY(15, 57)
	pdf.Cell(0, 5, translate(fmt.Sprintf("Dirección: %s, %s, %s", order.Address, order.City, order.PostalCode)))
	pdf.SetXY(15, 62)
	pdf.Cell(0, 5, translate("País: "+order.Country))
	pdf.SetXY(15, 67)
	pdf.Cell(0, 5, translate("Teléfono: "+order.Phone))

	pdf.Line(15, 74, 195, 74)

	// Item table.
	pdf.SetXY(15, 78)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "DETALLES DE LA ORDEN")

	y := 86.0
	pdf.SetXY(15, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(85, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Precio Unitario", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 6, "Cantidad", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		pdf.SetX(15)
		pdf.CellFormat(85, 6, translate(item.ProductName), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, money(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, money(item.Subtotal), "", 1, "R", false, 0, "")
	}

	// Totals box.
	pdf.Ln(6)
	boxY := pdf.GetY()
	pdf.SetFillColor(238, 238, 238)
	pdf.SetDrawColor(102, 102, 102)
	pdf.Rect(110, boxY, 85, 40, "FD")

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal:", money(order.Subtotal), false},
		{"Gastos de Envío:", money(order.ShippingCost), false},
		{"Impuestos (IVA):", money(order.Tax), false},
		{"Cupón Descuento:", "-" + money(order.DiscountAmount), false},
		{"TOTAL PAGADO:", money(order.Total), true},
	}

	rowY := boxY + 3
	for _, row := range rows {
		if row.bold {
			pdf.SetFont("Helvetica", "B", 11)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetXY(113, rowY)
		pdf.CellFormat(40, 6, translate(row.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(39, 6, row.value, "", 0, "R", false, 0, "")
		rowY += 7
	}

	pdf.SetY(rowY + 10)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(180, 6, "Gracias por tu compra", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(180, 5, translate(r.company.Name), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice for order %d: %w", order.ID, err)
	}
	return buf.Bytes(), nil
}

func money(value decimal.Decimal) string {
	return "$" + value.StringFixed(2)
}
