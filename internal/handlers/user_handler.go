package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novahogar2025-gif/Backend-final/internal/db"
	"github.com/novahogar2025-gif/Backend-final/internal/models"
)

// GET /api/users — admin only.
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al obtener usuarios"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id — admin only.
func GetUserByID(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// PUT /api/users/:id — admin only.
func UpdateUser(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Country string `json:"country" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensaje": "datos inválidos"})
		return
	}

	res := db.DB.Model(&models.User{}).Where("id = ?", c.Param("id")).Updates(map[string]interface{}{
		"name":    req.Name,
		"email":   req.Email,
		"country": req.Country,
	})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al actualizar usuario"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "usuario no encontrado o no hubo cambios"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "usuario actualizado correctamente"})
}

// DELETE /api/users/:id — admin only.
func DeleteUser(c *gin.Context) {
	res := db.DB.Delete(&models.User{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"mensaje": "error al eliminar usuario"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"mensaje": "usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mensaje": "usuario eliminado correctamente"})
}
