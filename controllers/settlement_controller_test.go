package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

func setupSettlementRoutes(admin *models.User) *gin.Engine {
	router := setupTestRouter()
	router.GET("/settlements", GetSettlements)
	router.POST("/settlements/:date/confirm", mockAuthMiddleware(admin), ConfirmSettlement)
	return router
}

func seedTodayOrders(t *testing.T, db *gorm.DB) {
	cell := createTestCell(t, db, "1234", 100000)
	orders := []models.Order{
		{OrderID: "ORD-1-aaaaaa", DailyNum: 1, PayType: models.PayTypePersonal, TotalAmount: 7000, Status: models.OrderStatusCompleted},
		{OrderID: "ORD-2-bbbbbb", DailyNum: 2, PayType: models.PayTypePersonal, TotalAmount: 3500, Status: models.OrderStatusCompleted},
		{OrderID: "ORD-3-cccccc", DailyNum: 3, PayType: models.PayTypeCell, CellID: &cell.ID, TotalAmount: 9000, Status: models.OrderStatusPending},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}
}

func TestConfirmSettlementEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestAdmin(t, db, models.RoleSuper)
	router := setupSettlementRoutes(admin)
	seedTodayOrders(t, db)

	today := time.Now().Format("2006-01-02")

	w, response := doJSON(t, router, http.MethodPost, "/settlements/"+today+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, true, data["isConfirmed"])
	assert.NotNil(t, data["confirmedAt"])
	confirmedBy := data["confirmedBy"].(map[string]interface{})
	assert.Equal(t, float64(admin.ID), confirmedBy["id"])

	// The rollup was computed from the day's orders
	var settlement models.DailySettlement
	require.NoError(t, db.Where("date = ?", today).First(&settlement).Error)
	assert.Equal(t, 3, settlement.TotalOrders)
	assert.Equal(t, 19500, settlement.TotalRevenue)
	assert.Equal(t, 2, settlement.PersonalOrders)
	assert.Equal(t, 10500, settlement.PersonalRevenue)
	assert.Equal(t, 1, settlement.CellOrders)
	assert.Equal(t, 9000, settlement.CellRevenue)

	// Confirming twice conflicts
	w, response = doJSON(t, router, http.MethodPost, "/settlements/"+today+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_CONFIRMED", errorCode(response))

	// Bad date format
	w, response = doJSON(t, router, http.MethodPost, "/settlements/not-a-date/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_FORMAT", errorCode(response))
}

func TestGetSettlementsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestAdmin(t, db, models.RoleSuper)
	router := setupSettlementRoutes(admin)

	confirmedAt := time.Now()
	settlements := []models.DailySettlement{
		{Date: "2026-08-25", TotalOrders: 10, TotalRevenue: 50000, IsConfirmed: true, ConfirmedBy: &admin.ID, ConfirmedAt: &confirmedAt},
		{Date: "2026-08-26", TotalOrders: 5, TotalRevenue: 20000},
		{Date: "2026-08-27", TotalOrders: 8, TotalRevenue: 40000},
	}
	for i := range settlements {
		require.NoError(t, db.Create(&settlements[i]).Error)
	}

	// Newest first
	w, response := doJSON(t, router, http.MethodGet, "/settlements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := response["data"].([]interface{})
	require.Len(t, list, 3)
	assert.Equal(t, "2026-08-27", list[0].(map[string]interface{})["date"])

	// Date range
	w, response = doJSON(t, router, http.MethodGet, "/settlements?startDate=2026-08-26&endDate=2026-08-26", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 1)

	// Confirmation filter carries the confirmer
	w, response = doJSON(t, router, http.MethodGet, "/settlements?isConfirmed=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = response["data"].([]interface{})
	require.Len(t, list, 1)
	entry := list[0].(map[string]interface{})
	assert.Equal(t, "2026-08-25", entry["date"])
	confirmer := entry["confirmedBy"].(map[string]interface{})
	assert.Equal(t, admin.Name, confirmer["name"])

	// Bad dates rejected
	w, response = doJSON(t, router, http.MethodGet, "/settlements?startDate=garbage", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_FORMAT", errorCode(response))
}
