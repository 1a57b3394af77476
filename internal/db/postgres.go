package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

var DB *gorm.DB

func Init() {

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Mexico_City",
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_USER", "novahogar"),
		getEnv("POSTGRES_PASSWORD", "novahogar"),
		getEnv("POSTGRES_DB", "novahogar"),
		getEnv("DB_PORT", "5432"),
	)

	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {

		log.Fatalf("Failed to connect to DB: %v", err)
	}

	err = DB.AutoMigrate(
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

		log.Fatalf("Failed to migrate DB: %v", err)
	}

	log.Println("Database connected and migrated successfully")
}

func SetTestDB(testDB *gorm.DB) {
	DB = testDB
}

func getEnv(key, fallback string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return fallback
}
