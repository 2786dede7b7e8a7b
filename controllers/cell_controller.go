package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/middleware"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

// CellAuthRequest represents the kiosk-side cell login request
type CellAuthRequest struct {
	PhoneLast4 string `json:"phoneLast4" binding:"required,len=4,numeric"`
}

// AuthenticateCell handles POST /api/v1/cells/auth - looks up an active cell
// by the last 4 phone digits so the kiosk can start a CELL payment
func AuthenticateCell(c *gin.Context) {
	var req CellAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "phoneLast4 must be exactly 4 digits",
			},
		})
		return
	}

	db := config.GetDB()
	var cell models.Cell
	if err := db.Where("phone_last4 = ? AND is_active = ?", req.PhoneLast4, true).First(&cell).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CELL_NOT_FOUND",
				"message": "No registered cell for this number",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      cell.ID,
			"name":    cell.Name,
			"leader":  cell.Leader,
			"balance": cell.Balance,
		},
	})
}

// GetCells handles GET /api/v1/cells - lists cells for administrators
func GetCells(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Cell{})
	if c.Query("includeInactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var cells []models.Cell
	if err := query.Order("name").Find(&cells).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list cells",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildCellList(cells),
	})
}

// CreateCellRequest represents the request body for creating a cell
type CreateCellRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Leader     string `json:"leader" binding:"required,max=100"`
	PhoneLast4 string `json:"phoneLast4" binding:"required,len=4,numeric"`
}

// CreateCell handles POST /api/v1/cells - registers a new prepaid cell
func CreateCell(c *gin.Context) {
	var req CreateCellRequest
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

	// phone_last4 is the kiosk login key, so duplicates are rejected up front
	var existing models.Cell
	if err := db.Where("phone_last4 = ?", req.PhoneLast4).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_PHONE",
				"message": "This phone number is already registered",
			},
		})
		return
	}

	cell := models.Cell{
		Name:       req.Name,
		Leader:     req.Leader,
		PhoneLast4: req.PhoneLast4,
		Balance:    0,
		IsActive:   true,
	}
	if err := db.Create(&cell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create cell",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":      cell.ID,
			"name":    cell.Name,
			"leader":  cell.Leader,
			"balance": cell.Balance,
		},
	})
}

// UpdateCellRequest represents the request body for updating a cell
type UpdateCellRequest struct {
	Name       *string `json:"name" binding:"omitempty,max=100"`
	Leader     *string `json:"leader" binding:"omitempty,max=100"`
	PhoneLast4 *string `json:"phoneLast4" binding:"omitempty,len=4,numeric"`
}

// UpdateCell handles PUT /api/v1/cells/:id
func UpdateCell(c *gin.Context) {
	cellID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCellRequest
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
	var cell models.Cell
	if err := db.First(&cell, cellID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CELL_NOT_FOUND",
				"message": "Cell not found",
			},
		})
		return
	}

	if req.PhoneLast4 != nil && *req.PhoneLast4 != cell.PhoneLast4 {
		var existing models.Cell
		if err := db.Where("phone_last4 = ?", *req.PhoneLast4).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_PHONE",
					"message": "This phone number is already registered",
				},
			})
			return
		}
		cell.PhoneLast4 = *req.PhoneLast4
	}
	if req.Name != nil {
		cell.Name = *req.Name
	}
	if req.Leader != nil {
		cell.Leader = *req.Leader
	}

	if err := db.Save(&cell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cell",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildCellResponse(&cell),
	})
}

// ToggleCellActive handles PATCH /api/v1/cells/:id/active - cells are never
// deleted, only deactivated, so their ledger history stays intact
func ToggleCellActive(c *gin.Context) {
	cellID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var cell models.Cell
	if err := db.First(&cell, cellID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CELL_NOT_FOUND",
				"message": "Cell not found",
			},
		})
		return
	}

	cell.IsActive = !cell.IsActive
	if err := db.Save(&cell).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cell",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildCellResponse(&cell),
	})
}

// ChargeCellRequest represents the request body for charging points
type ChargeCellRequest struct {
	Amount    int     `json:"amount" binding:"required,gt=0"`
	BonusRate int     `json:"bonusRate" binding:"min=0,max=100"`
	Memo      *string `json:"memo"`
}

// ChargeCell handles POST /api/v1/cells/:id/charge - credits points with an
// optional bonus percentage
func ChargeCell(c *gin.Context) {
	cellID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ChargeCellRequest
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

	var adminID *uint
	if admin, err := middleware.GetCurrentUser(c); err == nil {
		adminID = &admin.ID
	}

	result, err := services.ChargeCell(config.GetDB(), cellID, req.Amount, req.BonusRate, req.Memo, adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cellId":       result.Cell.ID,
			"cellName":     result.Cell.Name,
			"chargeAmount": result.ChargeAmount,
			"bonusAmount":  result.BonusAmount,
			"totalAmount":  result.TotalAmount,
			"balanceAfter": result.Cell.Balance,
		},
	})
}

// GetCellTransactions handles GET /api/v1/cells/:id/transactions - the cell's
// ledger history with date range, type filter, and pagination
func GetCellTransactions(c *gin.Context) {
	cellID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	filter := services.TransactionFilter{
		Limit:  parseQueryInt(c, "limit", 50),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if start := c.Query("startDate"); start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			respondInvalidDate(c)
			return
		}
		filter.Start = &parsed
	}
	if end := c.Query("endDate"); end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			respondInvalidDate(c)
			return
		}
		// Make the end date inclusive
		endExclusive := parsed.AddDate(0, 0, 1)
		filter.End = &endExclusive
	}
	if txnType := c.Query("type"); txnType != "" {
		if txnType != "CHARGE" && txnType != "USE" && txnType != "REFUND" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSACTION_TYPE",
					"message": "Transaction type must be CHARGE, USE, or REFUND",
				},
			})
			return
		}
		filter.Type = txnType
	}

	db := config.GetDB()
	transactions, total, err := services.ListCellTransactions(db, cellID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	transactionList := make([]gin.H, 0, len(transactions))
	for _, txn := range transactions {
		entry := gin.H{
			"id":           txn.ID,
			"type":         txn.Type,
			"amount":       txn.Amount,
			"balanceAfter": txn.BalanceAfter,
			"memo":         txn.Memo,
			"createdAt":    txn.CreatedAt,
		}

		if txn.CreatedBy != nil {
			var creator models.User
			if err := db.First(&creator, *txn.CreatedBy).Error; err == nil {
				entry["createdBy"] = gin.H{"id": creator.ID, "name": creator.Name}
			}
		}
		if txn.OrderID != nil {
			var order models.Order
			if err := db.First(&order, *txn.OrderID).Error; err == nil {
				entry["order"] = gin.H{"orderId": order.OrderID, "dailyNum": order.DailyNum}
			}
		}

		transactionList = append(transactionList, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"transactions": transactionList,
			"total":        total,
			"limit":        filter.Limit,
			"offset":       filter.Offset,
		},
	})
}

func buildCellResponse(cell *models.Cell) gin.H {
	return gin.H{
		"id":         cell.ID,
		"name":       cell.Name,
		"leader":     cell.Leader,
		"phoneLast4": cell.PhoneLast4,
		"balance":    cell.Balance,
		"isActive":   cell.IsActive,
		"createdAt":  cell.CreatedAt,
		"updatedAt":  cell.UpdatedAt,
	}
}

func buildCellList(cells []models.Cell) []gin.H {
	list := make([]gin.H, 0, len(cells))
	for i := range cells {
		list = append(list, buildCellResponse(&cells[i]))
	}
	return list
}

// parseIDParam reads a numeric path parameter, responding 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}

func respondInvalidDate(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_DATE_FORMAT",
			"message": "Date must be in YYYY-MM-DD format",
		},
	})
}
