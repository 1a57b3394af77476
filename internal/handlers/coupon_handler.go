package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// GET /api/coupons/:code
func GetCouponByCode(c *gin.Context) {
	var coupon models.Coupon
	if err := db.DB.Where("code = ? AND active = ?", c.Param("code"), true).
		First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "mensaje": "cupón no encontrado o inactivo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cupon": coupon})
}

// GET /api/coupons — admin only.
func ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := db.DB.Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(coupons), "cupones": coupons})
}

type CreateCouponRequest struct {
	Code            string          `json:"code" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent" binding:"required"`
}

// POST /api/coupons — admin only.
func CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code y discount_percent son requeridos"})
		return
	}

	hundred := decimal.NewFromInt(100)
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(hundred) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_percent debe estar entre 0 y 100"})
		return
	}

	coupon := models.Coupon{Code: req.Code, DiscountPercent: req.DiscountPercent, Active: true}
	if err := db.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "el código de cupón ya existe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "cupón creado", "cupon": coupon})
}

type SubscribeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// POST /api/subscription/subscribe — creates a 10% welcome coupon, marks an
// existing account as subscribed, and mails the code.
func Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "faltan datos"})
		return
	}

	code := fmt.Sprintf("WELCOME-%06d", time.Now().UnixNano()%1000000)
	coupon := models.Coupon{
		Code:            code,
		DiscountPercent: decimal.NewFromInt(10),
		Active:          true,
	}
	if err := db.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "error en suscripción"})
		return
	}

	// Subscription works for guests too; only flag the account if one
	// exists for this address.
	if err := db.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Update("subscribed", true).Error; err != nil {
		log.Printf("Failed to flag subscriber %s: %v", req.Email, err)
	}

	if Mail != nil {
		if err := Mail.SendCouponCode(req.Email, req.Name, code); err != nil {
			log.Printf("Failed to send subscription coupon to %s: %v", req.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"mensaje": "suscripción registrada, cupón enviado por correo",
		"codigo":  code,
	})
}

// POST /api/contact
func SendContactMessage(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan datos obligatorios"})
		return
	}

	if Mail != nil {
		if err := Mail.SendContactMessages(req.Name, req.Email, req.Message); err != nil {
			log.Printf("Failed to send contact messages from %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error enviando correo de contacto"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "mensaje recibido, se envió confirmación por correo"})
}
