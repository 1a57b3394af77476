package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/checkout"
	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/handlers"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.Init(config.AuthConfig{JWTSecret: "handler-test-secret", TokenTTL: time.Hour})
	os.Exit(m.Run())
}

var handlerDBSeq int

func setupHandlerDB(t *testing.T) *gorm.DB {
	handlerDBSeq++
	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", handlerDBSeq)
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.SaleRecord{},
		&models.IdempotencyKey{},
		&models.PasswordReset{},
	)
	if err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}

	db.SetTestDB(testDB)
	return testDB
}

type stubRenderer struct{}

func (stubRenderer) Render(order *models.Order) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type stubMailer struct {
	invoices int
	resets   int
	coupons  int
	contacts int
}

func (s *stubMailer) SendInvoice(to, name string, orderID uint, pdf []byte) error {
	s.invoices++
	return nil
}

func (s *stubMailer) SendCouponCode(to, name, code string) error {
	s.coupons++
	return nil
}

func (s *stubMailer) SendPasswordReset(to, name, token string) error {
	s.resets++
	return nil
}

func (s *stubMailer) SendContactMessages(name, fromEmail, message string) error {
	s.contacts++
	return nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		TaxRate:     decimal.RequireFromString("0.16"),
		ShippingFee: decimal.RequireFromString("150.00"),
	}
}

// newRouter mirrors the route layout wired in main.
func newRouter(testDB *gorm.DB, mailer *stubMailer) *gin.Engine {
	handlers.Mail = mailer

	svc := checkout.NewService(testDB, testCheckoutConfig(), stubRenderer{}, mailer)
	checkoutHandler := handlers.NewCheckoutHandler(svc)

	r := gin.New()

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/forgot-password", handlers.ForgotPassword)
		authGroup.POST("/reset-password", handlers.ResetPassword)
	}

	r.GET("/api/products", handlers.GetAllProducts)
	r.GET("/api/products/:id", handlers.GetProduct)
	r.GET("/api/coupons/:code", handlers.GetCouponByCode)
	r.POST("/api/subscription/subscribe", handlers.Subscribe)
	r.POST("/api/contact", handlers.SendContactMessage)

	api := r.Group("/api")
	api.Use(auth.RequireAuth())
	{
		api.GET("/cart", handlers.GetCart)
		api.POST("/cart/add", handlers.AddToCart)
		api.PUT("/cart/update", handlers.UpdateCartQuantity)
		api.DELETE("/cart/remove/:productId", handlers.RemoveFromCart)
		api.DELETE("/cart/clear", handlers.ClearCart)
		api.POST("/cart/coupon", handlers.ApplyCoupon)

		api.POST("/purchase", checkoutHandler.Checkout)
		api.GET("/orders", checkoutHandler.ListOrders)
		api.GET("/orders/:id", checkoutHandler.GetOrder)
		api.POST("/orders/:id/resend-invoice", checkoutHandler.ResendInvoice)
	}

	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.POST("/products", handlers.CreateProduct)
		admin.POST("/coupons", handlers.CreateCoupon)
		admin.GET("/stats/totals", handlers.GetTotalSales)
		admin.GET("/stats/sales-by-category", handlers.GetSalesByCategory)
	}

	return r
}

func createTestUser(t *testing.T, testDB *gorm.DB, name, role string) models.User {
	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Country:      "México",
	}
	assert.NoError(t, testDB.Create(&user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name, price string, stock int) models.Product {
	product := models.Product{
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Description:  "test product",
		Category:     "Comedores",
		StockOnHand:  stock,
		StockInitial: stock,
	}
	assert.NoError(t, testDB.Create(&product).Error)
	return product
}

func bearerFor(t *testing.T, user models.User) string {
	token, err := auth.GenerateToken(user.ID, user.Name, user.Role)
	assert.NoError(t, err)
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v (%s)", err, w.Body.String())
	}
	return body
}
