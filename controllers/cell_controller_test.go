package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

func setupCellRoutes(admin *models.User) *gin.Engine {
	router := setupTestRouter()
	router.POST("/cells/auth", AuthenticateCell)
	router.GET("/cells", GetCells)
	router.POST("/cells", CreateCell)
	router.PUT("/cells/:id", UpdateCell)
	router.PATCH("/cells/:id/active", ToggleCellActive)
	if admin != nil {
		router.POST("/cells/:id/charge", mockAuthMiddleware(admin), ChargeCell)
	} else {
		router.POST("/cells/:id/charge", ChargeCell)
	}
	router.GET("/cells/:id/transactions", GetCellTransactions)
	return router
}

func TestAuthenticateCell(t *testing.T) {
	db := setupTestDB(t)
	router := setupCellRoutes(nil)
	createTestCell(t, db, "1234", 15000)

	inactive := models.Cell{
		Name:       "Dormant Cell",
		Leader:     "Park Jiwoo",
		PhoneLast4: "9999",
		Balance:    500,
		IsActive:   false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "active cell found",
			body:           map[string]interface{}{"phoneLast4": "1234"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "inactive cell cannot authenticate",
			body:           map[string]interface{}{"phoneLast4": "9999"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "CELL_NOT_FOUND",
		},
		{
			name:           "unknown number",
			body:           map[string]interface{}{"phoneLast4": "0000"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "CELL_NOT_FOUND",
		},
		{
			name:           "too short",
			body:           map[string]interface{}{"phoneLast4": "123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "non numeric",
			body:           map[string]interface{}{"phoneLast4": "12ab"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := doJSON(t, router, http.MethodPost, "/cells/auth", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			} else {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Joy Cell", data["name"])
				assert.Equal(t, float64(15000), data["balance"])
			}
		})
	}
}

func TestCreateCellEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupCellRoutes(nil)
	createTestCell(t, db, "1234", 0)

	// Duplicate phone digits rejected
	w, response := doJSON(t, router, http.MethodPost, "/cells", map[string]interface{}{
		"name":       "Grace Cell",
		"leader":     "Lee Hana",
		"phoneLast4": "1234",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PHONE", errorCode(response))

	// New cell starts at zero balance
	w, response = doJSON(t, router, http.MethodPost, "/cells", map[string]interface{}{
		"name":       "Grace Cell",
		"leader":     "Lee Hana",
		"phoneLast4": "5678",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["balance"])
}

func TestUpdateCellEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupCellRoutes(nil)
	cell := createTestCell(t, db, "1234", 0)
	createTestCell(t, db, "5678", 0)

	// Partial update keeps untouched fields
	w, response := doJSON(t, router, http.MethodPut, "/cells/"+itoa(cell.ID),
		map[string]interface{}{"leader": "Choi Sumin"})
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Choi Sumin", data["leader"])
	assert.Equal(t, "Joy Cell", data["name"])

	// Moving to digits already taken by another cell is rejected
	w, response = doJSON(t, router, http.MethodPut, "/cells/"+itoa(cell.ID),
		map[string]interface{}{"phoneLast4": "5678"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PHONE", errorCode(response))
}

func TestToggleCellActiveEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupCellRoutes(nil)
	cell := createTestCell(t, db, "1234", 5000)

	w, response := doJSON(t, router, http.MethodPatch, "/cells/"+itoa(cell.ID)+"/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, false, data["isActive"])

	// Deactivated cells drop out of the default listing
	w, response = doJSON(t, router, http.MethodGet, "/cells", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"].([]interface{}))

	w, response = doJSON(t, router, http.MethodGet, "/cells?includeInactive=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 1)
}

func TestChargeCellEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestAdmin(t, db, models.RoleNormal)
	router := setupCellRoutes(admin)
	cell := createTestCell(t, db, "1234", 5000)

	w, response := doJSON(t, router, http.MethodPost, "/cells/"+itoa(cell.ID)+"/charge",
		map[string]interface{}{"amount": 10000, "bonusRate": 10})
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(10000), data["chargeAmount"])
	assert.Equal(t, float64(1000), data["bonusAmount"])
	assert.Equal(t, float64(11000), data["totalAmount"])
	assert.Equal(t, float64(16000), data["balanceAfter"])

	// The ledger row credits the charging admin
	var txn models.PointTransaction
	require.NoError(t, db.Where("cell_id = ?", cell.ID).First(&txn).Error)
	require.NotNil(t, txn.CreatedBy)
	assert.Equal(t, admin.ID, *txn.CreatedBy)

	// Zero or negative amounts never reach the service
	w, response = doJSON(t, router, http.MethodPost, "/cells/"+itoa(cell.ID)+"/charge",
		map[string]interface{}{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
}

func TestGetCellTransactionsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestAdmin(t, db, models.RoleNormal)
	router := setupCellRoutes(admin)
	cell := createTestCell(t, db, "1234", 0)

	for _, amount := range []int{10000, 5000} {
		w, _ := doJSON(t, router, http.MethodPost, "/cells/"+itoa(cell.ID)+"/charge",
			map[string]interface{}{"amount": amount})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, response := doJSON(t, router, http.MethodGet, "/cells/"+itoa(cell.ID)+"/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])

	// Malformed dates are rejected
	w, response = doJSON(t, router, http.MethodGet,
		"/cells/"+itoa(cell.ID)+"/transactions?startDate=2026-13-99", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_FORMAT", errorCode(response))

	// Unknown type filter is rejected
	w, response = doJSON(t, router, http.MethodGet,
		"/cells/"+itoa(cell.ID)+"/transactions?type=WITHDRAW", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TRANSACTION_TYPE", errorCode(response))
}
