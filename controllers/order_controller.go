package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

// CreateOrder handles POST /api/v1/orders - creates a new kiosk order
func CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
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

	order, err := services.CreateOrder(config.GetDB(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    buildOrderResponse(order, true),
	})
}

// GetOrder handles GET /api/v1/orders/:orderId - returns one order with its
// line and option snapshots
func GetOrder(c *gin.Context) {
	order, err := services.GetOrderByID(config.GetDB(), c.Param("orderId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildOrderResponse(order, false),
	})
}

// GetOrders handles GET /api/v1/orders - lists orders newest first with
// optional status and payType filters
func GetOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid status filter",
			},
		})
		return
	}

	payType := c.Query("payType")
	if payType != "" && payType != "PERSONAL" && payType != "CELL" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid payType filter",
			},
		})
		return
	}

	limit := parseQueryInt(c, "limit", 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	offset := parseQueryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	orders, total, err := services.ListOrders(config.GetDB(), status, payType, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	orderList := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		orderList = append(orderList, buildOrderResponse(&orders[i], false))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders": orderList,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING MAKING COMPLETED CANCELLED"`
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:orderId/status
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
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

	order, err := services.UpdateOrderStatus(config.GetDB(), c.Param("orderId"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildOrderResponse(order, false),
	})
}

func validOrderStatus(status string) bool {
	switch status {
	case "PENDING", "MAKING", "COMPLETED", "CANCELLED":
		return true
	}
	return false
}

// parseQueryInt reads an integer query parameter with a default
func parseQueryInt(c *gin.Context, key string, defaultValue int) int {
	value := c.Query(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
