package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	config "github.com/novahogar2025-gif/Backend-final/configs"
	"github.com/novahogar2025-gif/Backend-final/internal/auth"
	"github.com/novahogar2025-gif/Backend-final/internal/checkout"
	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/handlers"
	"github.com/novahogar2025-gif/Backend-final/internal/invoice"
	"github.com/novahogar2025-gif/Backend-final/internal/notifier"
	"github.com/novahogar2025-gif/Backend-final/internal/uploads"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db.Init()
	auth.Init(config.LoadAuthConfig())

	mailer := notifier.NewSESMailer(config.LoadEmailConfig())
	handlers.Mail = mailer

	if uploader, err := uploads.New(config.LoadCloudinaryConfig()); err != nil {
		log.Printf("Cloudinary disabled: %v", err)
	} else {
		handlers.Images = uploader
	}

	renderer := invoice.NewRenderer(config.LoadCompanyConfig())
	checkoutSvc := checkout.NewService(db.DB, config.LoadCheckoutConfig(), renderer, mailer)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// ── public endpoints ──
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/logout", handlers.Logout)
		authGroup.POST("/captcha", handlers.CheckCaptcha)
		authGroup.POST("/forgot-password", handlers.ForgotPassword)
		authGroup.POST("/reset-password", handlers.ResetPassword)
	}

	products := r.Group("/api/products")
	{
		products.GET("", handlers.GetAllProducts)
		products.GET("/:id", handlers.GetProduct)
		products.GET("/categoria/:categoria", handlers.GetProductsByCategory)
		products.GET("/buscar/:termino", handlers.SearchProducts)
	}

	r.GET("/api/coupons/:code", handlers.GetCouponByCode)
	r.POST("/api/subscription/subscribe", handlers.Subscribe)
	r.POST("/api/contact", handlers.SendContactMessage)

	// ── authenticated API ──
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

	// ── admin API ──
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.POST("/products", handlers.CreateProduct)
		admin.PUT("/products/:id", handlers.UpdateProduct)
		admin.DELETE("/products/:id", handlers.DeleteProduct)
		admin.POST("/products/:id/images", handlers.UploadProductImages)

		admin.GET("/coupons", handlers.ListCoupons)
		admin.POST("/coupons", handlers.CreateCoupon)

		admin.GET("/stats/sales-by-category", handlers.GetSalesByCategory)
		admin.GET("/stats/totals", handlers.GetTotalSales)
		admin.GET("/stats/inventory", handlers.GetInventoryByCategory)
		admin.GET("/stats/inventory/detailed", handlers.GetDetailedInventory)

		admin.GET("/users", handlers.GetUsers)
		admin.GET("/users/:id", handlers.GetUserByID)
		admin.PUT("/users/:id", handlers.UpdateUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)
	}

	r.Run(":" + getEnv("PORT", "8080"))
}

func getEnv(key, fallback string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return fallback
}
