package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// MailSender covers the emails sent outside the checkout flow. Wired to the
// SES mailer in main, replaced with a fake in tests.
type MailSender interface {
	SendCouponCode(to, name, code string) error
	SendPasswordReset(to, name, token string) error
	SendContactMessages(name, fromEmail, message string) error
}

var Mail MailSender

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Country  string `json:"country" binding:"required"`
	Role     string `json:"role"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios"})
		return
	}

	var existing models.User
	if err := db.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ya existe un usuario con este correo"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generando hash de contraseña"})
		return
	}

	// Anything other than the literal admin role is stored as a customer.
	role := models.RoleCustomer
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Country:      req.Country,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al dar de alta el usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "usuario registrado", "id": user.ID, "role": role})
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faltan campos obligatorios: 'name' y 'password'"})
		return
	}

	var user models.User
	err := db.DB.Where("name = ?", req.Name).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		minutes := int(math.Ceil(time.Until(*user.LockedUntil).Minutes()))
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "cuenta bloqueada por intentos fallidos",
			"mensaje": fmt.Sprintf("intenta nuevamente en %d minuto(s)", minutes),
		})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		registerFailedAttempt(&user)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
		return
	}

	// Successful login clears the failure counter and any expired lock.
	db.DB.Model(&user).Updates(map[string]interface{}{
		"failed_attempts": 0,
		"locked_until":    nil,
	})

	token, err := auth.GenerateToken(user.ID, user.Name, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error generando token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje": "login exitoso",
		"token":   token,
		"userId":  user.ID,
		"name":    user.Name,
		"role":    user.Role,
	})
}

func registerFailedAttempt(user *models.User) {
	attempts := user.FailedAttempts + 1

	if attempts >= auth.MaxLoginAttempts {
		until := time.Now().Add(auth.LockoutDuration)
		db.DB.Model(user).Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    until,
		})
		return
	}

	db.DB.Model(user).Updates(map[string]interface{}{
		"failed_attempts": attempts,
		"locked_until":    nil,
	})
}

// POST /api/auth/logout
func Logout(c *gin.Context) {
	// Tokens are stateless; the client just discards it.
	c.JSON(http.StatusOK, gin.H{"mensaje": "sesión cerrada"})
}

// POST /api/auth/captcha
func CheckCaptcha(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "token de reCAPTCHA no proporcionado"})
		return
	}

	cfg := config.LoadAuthConfig()
	ok, err := auth.VerifyCaptcha(cfg.RecaptchaSecret, req.Token)
	if err != nil {
		log.Printf("reCAPTCHA verification error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "mensaje": "error interno en la verificación"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "mensaje": "verificación fallida"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mensaje": "verificación exitosa"})
}

// POST /api/auth/forgot-password
func ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correo es requerido"})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Do not reveal whether the account exists.
		c.JSON(http.StatusOK, gin.H{"mensaje": "si la cuenta existe, se enviará un correo"})
		return
	}

	token, err := newResetToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	db.DB.Where("user_id = ?", user.ID).Delete(&models.PasswordReset{})
	reset := models.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.DB.Create(&reset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	if Mail != nil {
		if err := Mail.SendPasswordReset(user.Email, user.Name, token); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "correo de recuperación enviado"})
}

// POST /api/auth/reset-password
func ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token y new_password son requeridos"})
		return
	}

	var reset models.PasswordReset
	if err := db.DB.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token inválido o expirado"})
		return
	}

	if reset.ExpiresAt.Before(time.Now()) {
		db.DB.Delete(&reset)
		c.JSON(http.StatusBadRequest, gin.H{"error": "token expirado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	res := db.DB.Model(&models.User{}).Where("id = ?", reset.UserID).Update("password_hash", string(hash))
	db.DB.Delete(&reset)

	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo actualizar la contraseña"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "contraseña actualizada con éxito"})
}

func newResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
