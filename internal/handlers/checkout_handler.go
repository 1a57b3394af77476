package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/checkout"
	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// CheckoutHandler exposes the single checkout entrypoint plus the order
// read and invoice-resend endpoints.
type CheckoutHandler struct {
	svc *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// POST /api/purchase
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de la solicitud inválido"})
		return
	}
	req.UserID = auth.UserID(c)
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	result, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		status, message := checkoutErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje":  "compra finalizada",
		"success":  true,
		"order_id": result.OrderID,
		"totals":   result.Totals,
		"notified": result.Notified,
		"replayed": result.Replayed,
	})
}

func checkoutErrorResponse(err error) (int, string) {
	var validation *checkout.ValidationError
	var insufficient *checkout.InsufficientStockError
	var conflict *checkout.StockConflictError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "el carrito está vacío"
	case errors.As(err, &insufficient):
		return http.StatusConflict, err.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, "stock insuficiente, otro cliente ganó las últimas unidades; intenta nuevamente"
	case errors.Is(err, checkout.ErrInvalidCoupon):
		return http.StatusBadRequest, "cupón inválido o inactivo"
	default:
		log.Printf("checkout failed: %v", err)
		return http.StatusInternalServerError, "error al procesar la compra"
	}
}

// GET /api/orders
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	orders, err := checkout.ListOrdersForUser(db.DB, auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al obtener órdenes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(orders), "orders": orders})
}

// GET /api/orders/:id — owner or admin only.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	order, err := checkout.GetOrderByID(db.DB, uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "orden no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al obtener la orden"})
		return
	}

	if order.UserID != auth.UserID(c) && c.GetString("userRole") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "acceso denegado"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// POST /api/orders/:id/resend-invoice
func (h *CheckoutHandler) ResendInvoice(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	order, err := checkout.GetOrderByID(db.DB, uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "orden no encontrada"})
		return
	}
	if order.UserID != auth.UserID(c) && c.GetString("userRole") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "acceso denegado"})
		return
	}

	if err := h.svc.ResendInvoice(c.Request.Context(), uint(orderID)); err != nil {
		log.Printf("invoice resend failed for order %d: %v", orderID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudo reenviar la nota de compra"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "nota de compra reenviada", "success": true})
}
