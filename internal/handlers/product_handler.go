package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// GET /api/products
func GetAllProducts(c *gin.Context) {
	var products []models.Product
	if err := db.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al obtener productos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(products), "productos": products})
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := db.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "producto no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"producto":   product,
		"disponible": product.StockOnHand > 0,
	})
}

// GET /api/products/categoria/:categoria
func GetProductsByCategory(c *gin.Context) {
	category := c.Param("categoria")

	var products []models.Product
	// Accept singular and plural category names, the catalog has both.
	if err := db.DB.Where("category LIKE ?", category+"%").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al obtener productos por categoría"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categoria": category, "total": len(products), "productos": products})
}

// GET /api/products/buscar/:termino
func SearchProducts(c *gin.Context) {
	term := c.Param("termino")

	var products []models.Product
	if err := db.DB.Where("name LIKE ? OR description LIKE ?", "%"+term+"%", "%"+term+"%").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error al buscar productos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"termino": term, "total": len(products), "productos": products})
}
