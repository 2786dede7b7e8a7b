package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/middleware"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// GetSettlements handles GET /api/v1/settlements (admin)
func GetSettlements(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.DailySettlement{})

	if startDate := c.Query("startDate"); startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			respondInvalidDate(c)
			return
		}
		query = query.Where("date >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			respondInvalidDate(c)
			return
		}
		query = query.Where("date <= ?", endDate)
	}
	if isConfirmed := c.Query("isConfirmed"); isConfirmed != "" {
		query = query.Where("is_confirmed = ?", isConfirmed == "true")
	}

	var settlements []models.DailySettlement
	if err := query.Order("date DESC").Find(&settlements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list settlements",
			},
		})
		return
	}

	settlementList := make([]gin.H, 0, len(settlements))
	for i := range settlements {
		settlementList = append(settlementList, buildSettlementResponse(db, &settlements[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settlementList,
	})
}

// ConfirmSettlement handles POST /api/v1/settlements/:date/confirm (SUPER
// only). When no settlement row exists for the date yet, the daily totals
// are rolled up from orders first.
func ConfirmSettlement(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondInvalidDate(c)
		return
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authentication required",
			},
		})
		return
	}

	db := config.GetDB()

	var settlement models.DailySettlement
	var confirmErr error
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).First(&settlement).Error; err != nil {
			rollup, err := computeDailyRollup(tx, date)
			if err != nil {
				return err
			}
			settlement = *rollup
			if err := tx.Create(&settlement).Error; err != nil {
				return err
			}
		}

		if settlement.IsConfirmed {
			confirmErr = errAlreadyConfirmed
			return confirmErr
		}

		now := time.Now()
		settlement.IsConfirmed = true
		settlement.ConfirmedBy = &user.ID
		settlement.ConfirmedAt = &now
		return tx.Save(&settlement).Error
	})

	if txErr != nil {
		if confirmErr != nil {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ALREADY_CONFIRMED",
					"message": "Settlement has already been confirmed",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to confirm settlement",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":          settlement.ID,
			"date":        settlement.Date,
			"isConfirmed": settlement.IsConfirmed,
			"confirmedAt": settlement.ConfirmedAt,
			"confirmedBy": gin.H{
				"id":   user.ID,
				"name": user.Name,
			},
		},
	})
}

var errAlreadyConfirmed = &settlementConfirmedError{}

type settlementConfirmedError struct{}

func (e *settlementConfirmedError) Error() string {
	return "settlement already confirmed"
}

// computeDailyRollup aggregates all orders created on the given date into an
// unconfirmed settlement row
func computeDailyRollup(tx *gorm.DB, date string) (*models.DailySettlement, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	var orders []models.Order
	if err := tx.Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	settlement := &models.DailySettlement{Date: date}
	for i := range orders {
		settlement.TotalOrders++
		settlement.TotalRevenue += orders[i].TotalAmount
		switch orders[i].PayType {
		case models.PayTypePersonal:
			settlement.PersonalOrders++
			settlement.PersonalRevenue += orders[i].TotalAmount
		case models.PayTypeCell:
			settlement.CellOrders++
			settlement.CellRevenue += orders[i].TotalAmount
		}
	}
	return settlement, nil
}

func buildSettlementResponse(db *gorm.DB, settlement *models.DailySettlement) gin.H {
	resp := gin.H{
		"id":              settlement.ID,
		"date":            settlement.Date,
		"totalOrders":     settlement.TotalOrders,
		"totalRevenue":    settlement.TotalRevenue,
		"personalOrders":  settlement.PersonalOrders,
		"personalRevenue": settlement.PersonalRevenue,
		"cellOrders":      settlement.CellOrders,
		"cellRevenue":     settlement.CellRevenue,
		"isConfirmed":     settlement.IsConfirmed,
		"confirmedAt":     settlement.ConfirmedAt,
		"notes":           settlement.Notes,
	}
	if settlement.ConfirmedBy != nil {
		var confirmer models.User
		if err := db.First(&confirmer, *settlement.ConfirmedBy).Error; err == nil {
			resp["confirmedBy"] = gin.H{
				"id":   confirmer.ID,
				"name": confirmer.Name,
			}
		}
	}
	return resp
}
