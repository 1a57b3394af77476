package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

type cartItemView struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url"`
}

func loadCartView(userID uint) ([]cartItemView, error) {
	var rows []struct {
		ProductID uint
		Name      string
		Price     decimal.Decimal
		Quantity  int
		ImageURL  string
	}

	err := db.DB.Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.name, products.price, products.image_url").
		Joins("INNER JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]cartItemView, len(rows))
	for i, row := range rows {
		items[i] = cartItemView{
			ProductID: row.ProductID,
			Name:      row.Name,
			Price:     row.Price,
			Quantity:  row.Quantity,
			Subtotal:  row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))).Round(2),
			ImageURL:  row.ImageURL,
		}
	}
	return items, nil
}

// GET /api/cart
func GetCart(c *gin.Context) {
	items, err := loadCartView(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al obtener el carrito"})
		return
	}

	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
		totalItems += item.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"subtotal":    subtotal.StringFixed(2),
		"total_items": totalItems,
	})
}

type cartMutationRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// POST /api/cart/add
func AddToCart(c *gin.Context) {
	userID := auth.UserID(c)

	var req cartMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "datos inválidos"})
		return
	}

	var product models.Product
	if err := db.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado"})
		return
	}

	var existing models.CartItem
	inCart := 0
	if err := db.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		First(&existing).Error; err == nil {
		inCart = existing.Quantity
	}

	if product.StockOnHand < req.Quantity+inCart {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "stock insuficiente",
			"mensaje": fmt.Sprintf("solo quedan %d unidades y ya tienes %d en tu carrito",
				product.StockOnHand, inCart),
		})
		return
	}

	if existing.ID != 0 {
		err := db.DB.Model(&existing).Update("quantity", existing.Quantity+req.Quantity).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error al agregar producto al carrito"})
			return
		}
	} else {
		item := models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := db.DB.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error al agregar producto al carrito"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "producto agregado al carrito", "success": true})
}

// PUT /api/cart/update
func UpdateCartQuantity(c *gin.Context) {
	userID := auth.UserID(c)

	var req cartMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "datos inválidos"})
		return
	}

	var product models.Product
	if err := db.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado"})
		return
	}
	if product.StockOnHand < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock insuficiente"})
		return
	}

	res := db.DB.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		Update("quantity", req.Quantity)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al actualizar cantidad"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado en el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "cantidad actualizada", "success": true})
}

// DELETE /api/cart/remove/:productId
func RemoveFromCart(c *gin.Context) {
	userID := auth.UserID(c)

	res := db.DB.Where("user_id = ? AND product_id = ?", userID, c.Param("productId")).
		Delete(&models.CartItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al eliminar producto"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado en el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "producto eliminado del carrito", "success": true})
}

// DELETE /api/cart/clear
func ClearCart(c *gin.Context) {
	if err := db.DB.Where("user_id = ?", auth.UserID(c)).Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al vaciar el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "carrito vaciado", "success": true})
}

// POST /api/cart/coupon
func ApplyCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "código de cupón requerido"})
		return
	}

	var coupon models.Coupon
	if err := db.DB.Where("code = ? AND active = ?", req.Code, true).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cupón inválido o expirado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje": "cupón válido",
		"cupon": gin.H{
			"code":     coupon.Code,
			"discount": coupon.DiscountPercent,
		},
		"success": true,
	})
}
