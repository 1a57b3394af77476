package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// The admin dashboard reads the denormalized sale records written by the
// checkout transaction, so its numbers always agree with committed orders.

// GET /api/admin/stats/sales-by-category
func GetSalesByCategory(c *gin.Context) {
	var rows []struct {
		Category   string          `json:"categoria"`
		SaleCount  int64           `json:"cantidad_ventas"`
		TotalSales decimal.Decimal `json:"total_ventas"`
	}

	err := db.DB.Model(&models.SaleRecord{}).
		Select("category, COUNT(*) as sale_count, SUM(amount) as total_sales").
		Group("category").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GET /api/admin/stats/totals
func GetTotalSales(c *gin.Context) {
	var row struct {
		TotalOrders int64           `json:"total_ordenes"`
		TotalSales  decimal.Decimal `json:"total_ventas"`
		AverageSale decimal.Decimal `json:"promedio_venta"`
	}

	err := db.DB.Model(&models.Order{}).
		Select("COUNT(*) as total_orders, COALESCE(SUM(total), 0) as total_sales, COALESCE(AVG(total), 0) as average_sale").
		Scan(&row).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": row})
}

// GET /api/admin/stats/inventory
func GetInventoryByCategory(c *gin.Context) {
	var rows []struct {
		Category      string `json:"categoria"`
		TotalProducts int64  `json:"total_productos"`
		StockOnHand   int64  `json:"stock_disponible"`
		StockInitial  int64  `json:"stock_inicial"`
	}

	err := db.DB.Model(&models.Product{}).
		Select("category, COUNT(*) as total_products, SUM(stock_on_hand) as stock_on_hand, SUM(stock_initial) as stock_initial").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GET /api/admin/stats/inventory/detailed
func GetDetailedInventory(c *gin.Context) {
	var rows []struct {
		ID           uint   `json:"id"`
		Name         string `json:"nombre"`
		Category     string `json:"categoria"`
		Price        string `json:"precio"`
		StockOnHand  int    `json:"stock_actual"`
		StockInitial int    `json:"stock_inicial"`
		UnitsSold    int    `json:"unidades_vendidas"`
	}

	err := db.DB.Model(&models.Product{}).
		Select("id, name, category, price, stock_on_hand, stock_initial, (stock_initial - stock_on_hand) as units_sold").
		Order("category, name").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
