package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
	"github.com/novahogar2025-gif/Backend-final/internal/uploads"
)

// Images is the Cloudinary uploader, wired in main when configured.
var Images *uploads.Uploader

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	StockIn     int             `json:"stock_in" binding:"required,gt=0"`
}

// POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "faltan datos obligatorios"})
		return
	}

	var existing models.Product
	if err := db.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"mensaje": "ya existe un producto con el mismo nombre"})
		return
	}

	product := models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		// A new product starts with everything on hand.
		StockOnHand:  req.StockIn,
		StockInitial: req.StockIn,
	}
	if err := db.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al dar de alta el producto"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mensaje": "producto registrado", "id": product.ID})
}

// PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "faltan datos obligatorios"})
		return
	}

	res := db.DB.Model(&models.Product{}).Where("id = ?", c.Param("id")).Updates(map[string]interface{}{
		"name":        req.Name,
		"price":       req.Price,
		"description": req.Description,
		"category":    req.Category,
		// Restocking resets both counters, as the legacy admin flow did.
		"stock_initial": req.StockIn,
		"stock_on_hand": req.StockIn,
	})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al actualizar el producto"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "producto no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "producto actualizado"})
}

// DELETE /api/admin/products/:id
func DeleteProduct(c *gin.Context) {
	res := db.DB.Delete(&models.Product{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al eliminar el producto"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "producto no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "producto eliminado"})
}

// POST /api/admin/products/:id/images — multipart field "imagenes".
func UploadProductImages(c *gin.Context) {
	if Images == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "configuración de Cloudinary faltante"})
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "id inválido"})
		return
	}

	var product models.Product
	if err := db.DB.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "producto no encontrado"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["imagenes"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "se requiere al menos una imagen (campo: imagenes)"})
		return
	}

	mainURL, extraURLs, err := Images.UploadProductImages(c.Request.Context(), uint(productID), form.File["imagenes"])
	if err != nil {
		log.Printf("Image upload failed for product %d: %v", productID, err)
		c.JSON(http.StatusBadGateway, gin.H{"mensaje": "error al subir las imágenes"})
		return
	}

	extra := ""
	for i, u := range extraURLs {
		if i > 0 {
			extra += ";"
		}
		extra += u
	}

	if err := db.DB.Model(&product).Updates(map[string]interface{}{
		"image_url":        mainURL,
		"extra_image_urls": extra,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al registrar las imágenes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje":       "imágenes subidas y registradas",
		"url_principal": mainURL,
		"urls_extra":    extraURLs,
		"success":       true,
	})
}
