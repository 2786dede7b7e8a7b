package controllers

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
	"github.com/haha7000/Promise-Cafe-Kiosk/utils"
)

// GetMenus handles GET /api/v1/menus - the public kiosk menu list
func GetMenus(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Menu{}).Preload("Category")
	if categoryID := parseQueryInt(c, "category_id", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var menus []models.Menu
	if err := query.Order("display_order, id").Find(&menus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list menus",
			},
		})
		return
	}

	menuList := make([]gin.H, 0, len(menus))
	for i := range menus {
		menuList = append(menuList, buildMenuResponse(&menus[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menuList,
	})
}

// GetMenuDetail handles GET /api/v1/menus/:id - one menu with its option
// groups and items
func GetMenuDetail(c *gin.Context) {
	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var menu models.Menu
	err := db.Preload("Category").
		Preload("OptionGroups.OptionGroup.Items").
		First(&menu, menuID).Error
	if err != nil {
		respondMenuNotFound(c)
		return
	}

	// Option groups ordered by the menu link, items by their own order
	sort.Slice(menu.OptionGroups, func(i, j int) bool {
		return menu.OptionGroups[i].DisplayOrder < menu.OptionGroups[j].DisplayOrder
	})

	optionGroups := make([]gin.H, 0, len(menu.OptionGroups))
	for _, link := range menu.OptionGroups {
		group := link.OptionGroup
		sort.Slice(group.Items, func(i, j int) bool {
			return group.Items[i].DisplayOrder < group.Items[j].DisplayOrder
		})

		items := make([]gin.H, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, gin.H{
				"id":         item.ID,
				"name":       item.Name,
				"price":      item.Price,
				"is_default": item.IsDefault,
			})
		}

		optionGroups = append(optionGroups, gin.H{
			"id":          group.ID,
			"name":        group.Name,
			"icon":        group.Icon,
			"type":        group.Type,
			"is_required": group.IsRequired,
			"items":       items,
		})
	}

	detail := buildMenuResponse(&menu)
	detail["option_groups"] = optionGroups

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

// CreateMenuRequest represents the request body for creating a menu
type CreateMenuRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	EngName        *string `json:"eng_name" binding:"omitempty,max=100"`
	Price          int     `json:"price" binding:"required,gt=0"`
	CategoryID     uint    `json:"category_id" binding:"required"`
	Description    *string `json:"description"`
	DisplayOrder   *int    `json:"display_order"`
	OptionGroupIDs []uint  `json:"option_group_ids"`
}

// CreateMenu handles POST /api/v1/menus (admin)
func CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
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
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	var existing models.Menu
	if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_MENU_NAME",
				"message": "A menu with this name already exists",
			},
		})
		return
	}

	menu := models.Menu{
		Name:        req.Name,
		EngName:     req.EngName,
		Price:       req.Price,
		CategoryID:  &req.CategoryID,
		Description: req.Description,
		IsSoldOut:   false,
		IsActive:    true,
	}
	if req.DisplayOrder != nil {
		menu.DisplayOrder = *req.DisplayOrder
	}
	for idx, groupID := range req.OptionGroupIDs {
		var group models.OptionGroup
		if err := db.First(&group, groupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "OPTION_GROUP_NOT_FOUND",
					"message": "Option group not found",
				},
			})
			return
		}
		menu.OptionGroups = append(menu.OptionGroups, models.MenuOptionGroup{
			OptionGroupID: groupID,
			DisplayOrder:  idx,
		})
	}

	if err := db.Create(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create menu",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":    menu.ID,
			"name":  menu.Name,
			"price": menu.Price,
		},
	})
}

// UpdateMenuRequest represents the request body for updating a menu
type UpdateMenuRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	EngName        *string `json:"eng_name" binding:"omitempty,max=100"`
	Price          *int    `json:"price" binding:"omitempty,gt=0"`
	CategoryID     *uint   `json:"category_id"`
	Description    *string `json:"description"`
	DisplayOrder   *int    `json:"display_order"`
	OptionGroupIDs *[]uint `json:"option_group_ids"`
}

// UpdateMenu handles PUT /api/v1/menus/:id (admin)
func UpdateMenu(c *gin.Context) {
	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMenuRequest
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
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		respondMenuNotFound(c)
		return
	}

	if req.Name != nil && *req.Name != menu.Name {
		var existing models.Menu
		if err := db.Where("name = ? AND id <> ?", *req.Name, menuID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_MENU_NAME",
					"message": "A menu with this name already exists",
				},
			})
			return
		}
		menu.Name = *req.Name
	}
	if req.EngName != nil {
		menu.EngName = req.EngName
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_NOT_FOUND",
					"message": "Category not found",
				},
			})
			return
		}
		menu.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		menu.Description = req.Description
	}
	if req.DisplayOrder != nil {
		menu.DisplayOrder = *req.DisplayOrder
	}

	if req.OptionGroupIDs != nil {
		// Replace the whole association set
		if err := db.Where("menu_id = ?", menuID).Delete(&models.MenuOptionGroup{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update menu options",
				},
			})
			return
		}
		for idx, groupID := range *req.OptionGroupIDs {
			var group models.OptionGroup
			if err := db.First(&group, groupID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "OPTION_GROUP_NOT_FOUND",
						"message": "Option group not found",
					},
				})
				return
			}
			link := models.MenuOptionGroup{
				MenuID:        menuID,
				OptionGroupID: groupID,
				DisplayOrder:  idx,
			}
			if err := db.Create(&link).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "DATABASE_ERROR",
						"message": "Failed to update menu options",
					},
				})
				return
			}
		}
	}

	if err := db.Save(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update menu",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":    menu.ID,
			"name":  menu.Name,
			"price": menu.Price,
		},
	})
}

// ToggleSoldOutRequest represents the request body for the sold-out toggle
type ToggleSoldOutRequest struct {
	IsSoldOut *bool `json:"is_sold_out" binding:"required"`
}

// ToggleSoldOut handles PATCH /api/v1/menus/:id/sold-out (admin)
func ToggleSoldOut(c *gin.Context) {
	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ToggleSoldOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "is_sold_out is required",
			},
		})
		return
	}

	db := config.GetDB()
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		respondMenuNotFound(c)
		return
	}

	menu.IsSoldOut = *req.IsSoldOut
	if err := db.Save(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update menu",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":        menu.ID,
			"name":      menu.Name,
			"isSoldOut": menu.IsSoldOut,
		},
	})
}

// DeleteMenu handles DELETE /api/v1/menus/:id (SUPER only). Order snapshots
// keep their copied name and price, so history survives the delete.
func DeleteMenu(c *gin.Context) {
	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		respondMenuNotFound(c)
		return
	}

	if err := db.Where("menu_id = ?", menuID).Delete(&models.MenuOptionGroup{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete menu",
			},
		})
		return
	}
	if err := db.Delete(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete menu",
			},
		})
		return
	}

	// Remove the menu image from storage if one was uploaded. An orphaned
	// object is not worth failing the request over.
	if menu.ImageS3Key != nil {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*menu.ImageS3Key); err != nil {
				log.Printf("Warning: failed to delete image %s: %v", *menu.ImageS3Key, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      menuID,
			"message": "Menu deleted",
		},
	})
}

// UploadMenuImage handles POST /api/v1/menus/:id/image (admin) - stores a PNG
// image in S3 and attaches its key to the menu
func UploadMenuImage(c *gin.Context) {
	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		respondMenuNotFound(c)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload image",
			},
		})
		return
	}

	// Replace the previous image if there was one
	oldKey := menu.ImageS3Key
	menu.ImageS3Key = &imageKey
	if err := db.Save(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save menu image",
			},
		})
		return
	}
	if oldKey != nil && *oldKey != imageKey {
		_ = imageService.DeleteImage(*oldKey)
	}

	imageURL, _ := imageService.GetImageURL(imageKey)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":           menu.ID,
			"image_s3_key": imageKey,
			"image_url":    imageURL,
		},
	})
}

// buildMenuResponse converts a menu into its public shape, resolving the
// image URL when storage is configured
func buildMenuResponse(menu *models.Menu) gin.H {
	resp := gin.H{
		"id":            menu.ID,
		"name":          menu.Name,
		"eng_name":      menu.EngName,
		"price":         menu.Price,
		"description":   menu.Description,
		"is_sold_out":   menu.IsSoldOut,
		"is_active":     menu.IsActive,
		"display_order": menu.DisplayOrder,
	}
	if menu.Category != nil {
		resp["category"] = gin.H{
			"id":   menu.Category.ID,
			"code": menu.Category.Code,
			"name": menu.Category.Name,
		}
	}
	if menu.ImageS3Key != nil {
		if imageService := services.GetImageService(); imageService != nil {
			if url, err := imageService.GetImageURL(*menu.ImageS3Key); err == nil {
				resp["image_url"] = url
			}
		}
	}
	return resp
}

func respondMenuNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "MENU_NOT_FOUND",
			"message": "Menu not found",
		},
	})
}
