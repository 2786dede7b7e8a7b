package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// GetDashboardStatistics handles GET /api/v1/statistics/dashboard (admin).
// Returns the day's order counts and revenue broken down by payment type
// and status.
func GetDashboardStatistics(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	dayStart, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		respondInvalidDate(c)
		return
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	db := config.GetDB()
	var orders []models.Order
	if err := db.Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load statistics",
			},
		})
		return
	}

	stats := gin.H{
		"date":            date,
		"totalOrders":     len(orders),
		"totalRevenue":    0,
		"personalOrders":  0,
		"personalRevenue": 0,
		"cellOrders":      0,
		"cellRevenue":     0,
		"pendingOrders":   0,
		"makingOrders":    0,
		"completedOrders": 0,
	}

	totalRevenue := 0
	personalOrders, personalRevenue := 0, 0
	cellOrders, cellRevenue := 0, 0
	pending, making, completed := 0, 0, 0
	for i := range orders {
		totalRevenue += orders[i].TotalAmount
		switch orders[i].PayType {
		case models.PayTypePersonal:
			personalOrders++
			personalRevenue += orders[i].TotalAmount
		case models.PayTypeCell:
			cellOrders++
			cellRevenue += orders[i].TotalAmount
		}
		switch orders[i].Status {
		case models.OrderStatusPending:
			pending++
		case models.OrderStatusMaking:
			making++
		case models.OrderStatusCompleted:
			completed++
		}
	}
	stats["totalRevenue"] = totalRevenue
	stats["personalOrders"] = personalOrders
	stats["personalRevenue"] = personalRevenue
	stats["cellOrders"] = cellOrders
	stats["cellRevenue"] = cellRevenue
	stats["pendingOrders"] = pending
	stats["makingOrders"] = making
	stats["completedOrders"] = completed

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// GetMenuStatistics handles GET /api/v1/statistics/menus (admin). Aggregates
// sold quantity and revenue per menu from the order item snapshots, so menus
// deleted since still appear under their recorded name.
func GetMenuStatistics(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.OrderItem{}).
		Select("order_items.menu_name AS menu_name, SUM(order_items.quantity) AS total_quantity, SUM(order_items.total_price) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id")

	query, ok := applyOrderDateRange(c, query)
	if !ok {
		return
	}
	if categoryID := parseQueryInt(c, "categoryId", 0); categoryID > 0 {
		query = query.Joins("JOIN menus ON menus.id = order_items.menu_id").
			Where("menus.category_id = ?", categoryID)
	}

	var rows []struct {
		MenuName      string
		TotalQuantity int
		TotalRevenue  int
	}
	if err := query.Group("order_items.menu_name").
		Order("total_revenue DESC").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load statistics",
			},
		})
		return
	}

	menuStats := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		menuStats = append(menuStats, gin.H{
			"menuName": row.MenuName,
			"quantity": row.TotalQuantity,
			"revenue":  row.TotalRevenue,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menuStats,
	})
}

// GetDailyStatistics handles GET /api/v1/statistics/daily (admin). Returns
// order count and revenue per calendar day over the requested range.
func GetDailyStatistics(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Order{}).
		Select("DATE(orders.created_at) AS day, COUNT(orders.id) AS total_orders, SUM(orders.total_amount) AS total_revenue")

	query, ok := applyOrderDateRange(c, query)
	if !ok {
		return
	}

	var rows []struct {
		Day          string
		TotalOrders  int
		TotalRevenue int
	}
	if err := query.Group("DATE(orders.created_at)").
		Order("day").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load statistics",
			},
		})
		return
	}

	dailyStats := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		dailyStats = append(dailyStats, gin.H{
			"date":         row.Day,
			"totalOrders":  row.TotalOrders,
			"totalRevenue": row.TotalRevenue,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dailyStats,
	})
}

// applyOrderDateRange applies startDate/endDate query filters on
// orders.created_at. The end date is inclusive. Returns ok=false after
// responding with INVALID_DATE_FORMAT.
func applyOrderDateRange(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if startDate := c.Query("startDate"); startDate != "" {
		start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			respondInvalidDate(c)
			return nil, false
		}
		query = query.Where("orders.created_at >= ?", start)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
		if err != nil {
			respondInvalidDate(c)
			return nil, false
		}
		query = query.Where("orders.created_at < ?", end.AddDate(0, 0, 1))
	}
	return query, true
}
