package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// GetOptionGroups handles GET /api/v1/options - all option groups with items
func GetOptionGroups(c *gin.Context) {
	db := config.GetDB()

	var groups []models.OptionGroup
	if err := db.Preload("Items").Order("display_order, id").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list option groups",
			},
		})
		return
	}

	for i := range groups {
		items := groups[i].Items
		sort.Slice(items, func(a, b int) bool {
			return items[a].DisplayOrder < items[b].DisplayOrder
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    groups,
	})
}

// OptionItemRequest is one choice within a group create/update payload
type OptionItemRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Price        int    `json:"price"`
	IsDefault    bool   `json:"is_default"`
	DisplayOrder int    `json:"display_order"`
}

// CreateOptionGroupRequest represents the request body for creating an
// option group, optionally with its initial items
type CreateOptionGroupRequest struct {
	Name         string              `json:"name" binding:"required,max=100"`
	Icon         *string             `json:"icon" binding:"omitempty,max=10"`
	Type         string              `json:"type" binding:"required,oneof=SINGLE MULTIPLE"`
	IsRequired   bool                `json:"is_required"`
	DisplayOrder int                 `json:"display_order"`
	Items        []OptionItemRequest `json:"items" binding:"omitempty,dive"`
}

// CreateOptionGroup handles POST /api/v1/options (admin)
func CreateOptionGroup(c *gin.Context) {
	var req CreateOptionGroupRequest
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

	group := models.OptionGroup{
		Name:         req.Name,
		Icon:         req.Icon,
		Type:         req.Type,
		IsRequired:   req.IsRequired,
		DisplayOrder: req.DisplayOrder,
	}
	for _, item := range req.Items {
		group.Items = append(group.Items, models.OptionItem{
			Name:         item.Name,
			Price:        item.Price,
			IsDefault:    item.IsDefault,
			DisplayOrder: item.DisplayOrder,
		})
	}

	db := config.GetDB()
	if err := db.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create option group",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    group,
	})
}

// UpdateOptionGroupRequest represents the request body for updating a group
type UpdateOptionGroupRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Icon         *string `json:"icon" binding:"omitempty,max=10"`
	Type         *string `json:"type" binding:"omitempty,oneof=SINGLE MULTIPLE"`
	IsRequired   *bool   `json:"is_required"`
	DisplayOrder *int    `json:"display_order"`
}

// UpdateOptionGroup handles PUT /api/v1/options/:group_id (admin)
func UpdateOptionGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	var req UpdateOptionGroupRequest
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
	var group models.OptionGroup
	if err := db.First(&group, groupID).Error; err != nil {
		respondOptionGroupNotFound(c)
		return
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Icon != nil {
		group.Icon = req.Icon
	}
	if req.Type != nil {
		group.Type = *req.Type
	}
	if req.IsRequired != nil {
		group.IsRequired = *req.IsRequired
	}
	if req.DisplayOrder != nil {
		group.DisplayOrder = *req.DisplayOrder
	}

	if err := db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update option group",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    group,
	})
}

// DeleteOptionGroup handles DELETE /api/v1/options/:group_id (SUPER only).
// Menu links and items go with the group; order snapshots are untouched.
func DeleteOptionGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	db := config.GetDB()
	var group models.OptionGroup
	if err := db.First(&group, groupID).Error; err != nil {
		respondOptionGroupNotFound(c)
		return
	}

	if err := db.Where("option_group_id = ?", groupID).Delete(&models.MenuOptionGroup{}).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to delete option group")
		return
	}
	if err := db.Where("option_group_id = ?", groupID).Delete(&models.OptionItem{}).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to delete option group")
		return
	}
	if err := db.Delete(&group).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to delete option group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      groupID,
			"message": "Option group deleted",
		},
	})
}

// CreateOptionItem handles POST /api/v1/options/:group_id/items (admin)
func CreateOptionItem(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	var req OptionItemRequest
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
	var group models.OptionGroup
	if err := db.First(&group, groupID).Error; err != nil {
		respondOptionGroupNotFound(c)
		return
	}

	item := models.OptionItem{
		OptionGroupID: groupID,
		Name:          req.Name,
		Price:         req.Price,
		IsDefault:     req.IsDefault,
		DisplayOrder:  req.DisplayOrder,
	}
	if err := db.Create(&item).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to create option item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateOptionItemRequest represents the request body for updating an item
type UpdateOptionItemRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Price        *int    `json:"price"`
	IsDefault    *bool   `json:"is_default"`
	DisplayOrder *int    `json:"display_order"`
}

// UpdateOptionItem handles PUT /api/v1/options/:group_id/items/:item_id (admin)
func UpdateOptionItem(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	var req UpdateOptionItemRequest
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
	var item models.OptionItem
	if err := db.Where("option_group_id = ?", groupID).First(&item, itemID).Error; err != nil {
		respondOptionItemNotFound(c)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.IsDefault != nil {
		item.IsDefault = *req.IsDefault
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}

	if err := db.Save(&item).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to update option item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteOptionItem handles DELETE /api/v1/options/:group_id/items/:item_id (admin)
func DeleteOptionItem(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	db := config.GetDB()
	var item models.OptionItem
	if err := db.Where("option_group_id = ?", groupID).First(&item, itemID).Error; err != nil {
		respondOptionItemNotFound(c)
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		respondOptionDatabaseError(c, "Failed to delete option item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      itemID,
			"message": "Option item deleted",
		},
	})
}

func respondOptionGroupNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "OPTION_GROUP_NOT_FOUND",
			"message": "Option group not found",
		},
	})
}

func respondOptionItemNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "OPTION_ITEM_NOT_FOUND",
			"message": "Option item not found",
		},
	})
}

func respondOptionDatabaseError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": message,
		},
	})
}
