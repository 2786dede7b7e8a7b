package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

func setupCategoryRoutes() *gin.Engine {
	router := setupTestRouter()
	router.GET("/categories", GetCategories)
	router.POST("/categories", CreateCategory)
	router.PUT("/categories/:id", UpdateCategory)
	router.PATCH("/categories/:id/active", ToggleCategoryActive)
	router.DELETE("/categories/:id", DeleteCategory)
	return router
}

func TestCategoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	router := setupCategoryRoutes()

	// Create
	w, response := doJSON(t, router, http.MethodPost, "/categories", map[string]interface{}{
		"code": "COFFEE",
		"name": "Coffee",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := uint(response["data"].(map[string]interface{})["id"].(float64))

	// Duplicate code
	w, response = doJSON(t, router, http.MethodPost, "/categories", map[string]interface{}{
		"code": "COFFEE",
		"name": "Coffee Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_CATEGORY_CODE", errorCode(response))

	// Update
	w, response = doJSON(t, router, http.MethodPut, "/categories/"+itoa(categoryID),
		map[string]interface{}{"name": "Coffee & Espresso"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Coffee & Espresso", response["data"].(map[string]interface{})["name"])

	// Toggle hides it from the default listing
	w, _ = doJSON(t, router, http.MethodPatch, "/categories/"+itoa(categoryID)+"/active", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response = doJSON(t, router, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"].([]interface{}))

	w, response = doJSON(t, router, http.MethodGet, "/categories?include_inactive=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 1)

	// Delete clears the category from its menus instead of deleting them
	menu := models.Menu{Name: "Americano", Price: 3500, CategoryID: &categoryID, IsActive: true}
	require.NoError(t, db.Create(&menu).Error)

	w, _ = doJSON(t, router, http.MethodDelete, "/categories/"+itoa(categoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Menu
	require.NoError(t, db.First(&fresh, menu.ID).Error)
	assert.Nil(t, fresh.CategoryID)

	w, response = doJSON(t, router, http.MethodDelete, "/categories/"+itoa(categoryID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errorCode(response))
}
