package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatisticsRoutes() *gin.Engine {
	router := setupTestRouter()
	router.POST("/orders", CreateOrder)
	router.PATCH("/orders/:orderId/status", UpdateOrderStatus)
	router.GET("/statistics/dashboard", GetDashboardStatistics)
	router.GET("/statistics/menus", GetMenuStatistics)
	router.GET("/statistics/daily", GetDailyStatistics)
	return router
}

func placeOrder(t *testing.T, router *gin.Engine, payType string, cellID interface{}, menuName string, price, quantity int) string {
	body := map[string]interface{}{
		"payType": payType,
		"items": []map[string]interface{}{
			{"menuName": menuName, "menuPrice": price, "quantity": quantity},
		},
		"totalAmount": price * quantity,
	}
	if cellID != nil {
		body["cellId"] = cellID
	}
	w, response := doJSON(t, router, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, w.Code)
	return response["data"].(map[string]interface{})["orderId"].(string)
}

func TestDashboardStatisticsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupStatisticsRoutes()
	cell := createTestCell(t, db, "1234", 100000)

	placeOrder(t, router, "PERSONAL", nil, "Americano", 3500, 2)
	placeOrder(t, router, "CELL", cell.ID, "Cafe Latte", 4500, 1)
	makingID := placeOrder(t, router, "PERSONAL", nil, "Vanilla Latte", 5000, 1)
	w, _ := doJSON(t, router, http.MethodPatch, "/orders/"+makingID+"/status",
		map[string]interface{}{"status": "MAKING"})
	require.Equal(t, http.StatusOK, w.Code)

	w, response := doJSON(t, router, http.MethodGet, "/statistics/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, time.Now().Format("2006-01-02"), data["date"])
	assert.Equal(t, float64(3), data["totalOrders"])
	assert.Equal(t, float64(16500), data["totalRevenue"])
	assert.Equal(t, float64(2), data["personalOrders"])
	assert.Equal(t, float64(12000), data["personalRevenue"])
	assert.Equal(t, float64(1), data["cellOrders"])
	assert.Equal(t, float64(4500), data["cellRevenue"])
	assert.Equal(t, float64(2), data["pendingOrders"])
	assert.Equal(t, float64(1), data["makingOrders"])
	assert.Equal(t, float64(0), data["completedOrders"])

	// A day with no orders is all zeros
	w, response = doJSON(t, router, http.MethodGet, "/statistics/dashboard?date=2000-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["totalOrders"])

	w, response = doJSON(t, router, http.MethodGet, "/statistics/dashboard?date=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_FORMAT", errorCode(response))
}

func TestMenuStatisticsEndpoint(t *testing.T) {
	setupTestDB(t)
	router := setupStatisticsRoutes()

	placeOrder(t, router, "PERSONAL", nil, "Americano", 3500, 2)
	placeOrder(t, router, "PERSONAL", nil, "Americano", 3500, 1)
	placeOrder(t, router, "PERSONAL", nil, "Cafe Latte", 4500, 1)

	w, response := doJSON(t, router, http.MethodGet, "/statistics/menus", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := response["data"].([]interface{})
	require.Len(t, list, 2)

	// Highest revenue first
	first := list[0].(map[string]interface{})
	assert.Equal(t, "Americano", first["menuName"])
	assert.Equal(t, float64(3), first["quantity"])
	assert.Equal(t, float64(10500), first["revenue"])

	second := list[1].(map[string]interface{})
	assert.Equal(t, "Cafe Latte", second["menuName"])
	assert.Equal(t, float64(4500), second["revenue"])

	// A window in the past matches nothing
	w, response = doJSON(t, router, http.MethodGet,
		"/statistics/menus?startDate=2000-01-01&endDate=2000-01-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"].([]interface{}))
}

func TestDailyStatisticsEndpoint(t *testing.T) {
	setupTestDB(t)
	router := setupStatisticsRoutes()

	placeOrder(t, router, "PERSONAL", nil, "Americano", 3500, 1)
	placeOrder(t, router, "PERSONAL", nil, "Cafe Latte", 4500, 1)

	w, response := doJSON(t, router, http.MethodGet, "/statistics/daily", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := response["data"].([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, float64(2), entry["totalOrders"])
	assert.Equal(t, float64(8000), entry["totalRevenue"])

	w, response = doJSON(t, router, http.MethodGet, "/statistics/daily?endDate=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_FORMAT", errorCode(response))
}
