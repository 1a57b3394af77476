package config

import (
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
	ContactInbox       string
}

type CheckoutConfig struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FreeShippingEnabled   bool
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	RecaptchaSecret string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type CompanyConfig struct {
	Name    string
	Tagline string
}

func LoadEmailConfig() EmailConfig {
	return EmailConfig{
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
		ContactInbox:       getEnvOrDefault("CONTACT_INBOX", "novahogar2025@gmail.com"),
	}
}

// LoadCheckoutConfig reads the pricing policy: IVA rate applied to the
// discounted subtotal, flat shipping fee, and an optional free-shipping
// threshold (disabled unless FREE_SHIPPING_THRESHOLD is set).
func LoadCheckoutConfig() CheckoutConfig {
	cfg := CheckoutConfig{
		TaxRate:     mustDecimal(getEnvOrDefault("TAX_RATE", "0.16")),
		ShippingFee: mustDecimal(getEnvOrDefault("SHIPPING_FEE", "150.00")),
	}

	if raw, exists := os.LookupEnv("FREE_SHIPPING_THRESHOLD"); exists && raw != "" {
		cfg.FreeShippingThreshold = mustDecimal(raw)
		cfg.FreeShippingEnabled = true
	}

	return cfg
}

func LoadAuthConfig() AuthConfig {
	ttl, err := time.ParseDuration(getEnvOrDefault("JWT_EXPIRES_IN", "24h"))
	if err != nil {
		ttl = 24 * time.Hour
	}

	return AuthConfig{
		JWTSecret:       getEnvOrDefault("JWT_SECRET", "change-me"),
		TokenTTL:        ttl,
		RecaptchaSecret: os.Getenv("RECAPTCHA_SECRET_KEY"),
	}
}

func LoadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}
}

func LoadCompanyConfig() CompanyConfig {
	return CompanyConfig{
		Name:    getEnvOrDefault("EMPRESA_NOMBRE", "Nova Hogar"),
		Tagline: getEnvOrDefault("EMPRESA_LEMA", "Diseño y Confort para tu Hogar"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func mustDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
