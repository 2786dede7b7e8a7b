package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// GetCategories handles GET /api/v1/categories
func GetCategories(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Category{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Order("display_order, id").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Code         string `json:"code" binding:"required,max=50"`
	Name         string `json:"name" binding:"required,max=100"`
	DisplayOrder *int   `json:"display_order"`
}

// CreateCategory handles POST /api/v1/categories (admin)
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var existing models.Category
	if err := db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_CATEGORY_CODE",
				"message": "A category with this code already exists",
			},
		})
		return
	}

	category := models.Category{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: true,
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create category",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// UpdateCategoryRequest represents the request body for updating a category
type UpdateCategoryRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	DisplayOrder *int    `json:"display_order"`
}

// UpdateCategory handles PUT /api/v1/categories/:id (admin)
func UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		respondCategoryNotFound(c)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// ToggleCategoryActive handles PATCH /api/v1/categories/:id/active (admin)
func ToggleCategoryActive(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		respondCategoryNotFound(c)
		return
	}

	category.IsActive = !category.IsActive
	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":        category.ID,
			"is_active": category.IsActive,
		},
	})
}

// DeleteCategory handles DELETE /api/v1/categories/:id (SUPER only). Menus in
// the category keep their rows with a cleared category reference.
func DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		respondCategoryNotFound(c)
		return
	}

	if err := db.Model(&models.Menu{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}
	if err := db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      categoryID,
			"message": "Category deleted",
		},
	})
}

func respondCategoryNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "CATEGORY_NOT_FOUND",
			"message": "Category not found",
		},
	})
}
