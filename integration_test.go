package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

// setupIntegrationEnv wires an in-memory database and test configuration into
// the full application router
func setupIntegrationEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Cell{},
		&models.Category{},
		&models.OptionGroup{},
		&models.OptionItem{},
		&models.Menu{},
		&models.MenuOptionGroup{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.PointTransaction{},
		&models.DailySettlement{},
		&models.SystemSetting{},
	))
	config.SetDB(db)

	cfg := &config.Config{
		GoEnv:            "test",
		JWTSecret:        "integration-test-secret",
		JWTExpireMinutes: 60,
		CORSOrigins:      "http://localhost:5173",
	}
	config.SetConfig(cfg)

	return setupRouter(cfg), db
}

func request(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestKioskOrderFlowIntegration walks the whole kiosk path: the cell logs in
// with its phone digits, places an order against its balance, the admin works
// the order to completion, and the ledger reflects every step.
func TestKioskOrderFlowIntegration(t *testing.T) {
	router, db := setupIntegrationEnv(t)

	hash, err := services.HashPassword("admin-pw")
	require.NoError(t, err)
	admin := models.User{Username: "admin", PasswordHash: hash, Name: "Admin Kim", Role: models.RoleSuper}
	require.NoError(t, db.Create(&admin).Error)

	cell := models.Cell{Name: "Joy Cell", Leader: "Kim Minji", PhoneLast4: "1234", Balance: 20000, IsActive: true}
	require.NoError(t, db.Create(&cell).Error)

	// Admin login
	w, response := request(t, router, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"username": "admin", "password": "admin-pw"})
	require.Equal(t, http.StatusOK, w.Code)
	token := response["data"].(map[string]interface{})["access_token"].(string)

	// Kiosk cell login
	w, response = request(t, router, http.MethodPost, "/api/v1/cells/auth", "",
		map[string]interface{}{"phoneLast4": "1234"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(20000), response["data"].(map[string]interface{})["balance"])

	// Place a CELL order
	w, response = request(t, router, http.MethodPost, "/api/v1/orders", "",
		map[string]interface{}{
			"payType": "CELL",
			"cellId":  cell.ID,
			"items": []map[string]interface{}{
				{"menuName": "Americano", "menuPrice": 3500, "quantity": 2},
			},
			"totalAmount": 7000,
		})
	require.Equal(t, http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	orderID := data["orderId"].(string)
	assert.Equal(t, float64(1), data["dailyNum"])
	assert.Equal(t, float64(13000), data["cellInfo"].(map[string]interface{})["balance"])

	// Status changes require an admin token
	statusPath := fmt.Sprintf("/api/v1/orders/%s/status", orderID)
	w, _ = request(t, router, http.MethodPatch, statusPath, "",
		map[string]interface{}{"status": "MAKING"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = request(t, router, http.MethodPatch, statusPath, token,
		map[string]interface{}{"status": "MAKING"})
	require.Equal(t, http.StatusOK, w.Code)

	w, response = request(t, router, http.MethodPatch, statusPath, token,
		map[string]interface{}{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, response["data"].(map[string]interface{})["completedAt"])

	// The ledger recorded exactly one debit
	var txns []models.PointTransaction
	require.NoError(t, db.Where("cell_id = ?", cell.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, -7000, txns[0].Amount)

	// The day's numbers show up on the admin dashboard
	w, response = request(t, router, http.MethodGet, "/api/v1/statistics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalOrders"])
	assert.Equal(t, float64(7000), stats["cellRevenue"])
}

// TestSuperOnlyRoutesIntegration verifies the role split between NORMAL and
// SUPER administrators on the live route table
func TestSuperOnlyRoutesIntegration(t *testing.T) {
	router, db := setupIntegrationEnv(t)

	hash, err := services.HashPassword("pw")
	require.NoError(t, err)
	normal := models.User{Username: "staff", PasswordHash: hash, Name: "Staff", Role: models.RoleNormal}
	super := models.User{Username: "root", PasswordHash: hash, Name: "Root", Role: models.RoleSuper}
	require.NoError(t, db.Create(&normal).Error)
	require.NoError(t, db.Create(&super).Error)

	login := func(username string) string {
		w, response := request(t, router, http.MethodPost, "/api/v1/auth/login", "",
			map[string]interface{}{"username": username, "password": "pw"})
		require.Equal(t, http.StatusOK, w.Code)
		return response["data"].(map[string]interface{})["access_token"].(string)
	}
	normalToken := login("staff")
	superToken := login("root")

	category := models.Category{Code: "COFFEE", Name: "Coffee", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	menu := models.Menu{Name: "Americano", Price: 3500, CategoryID: &category.ID, IsActive: true}
	require.NoError(t, db.Create(&menu).Error)

	deletePath := fmt.Sprintf("/api/v1/menus/%d", menu.ID)

	w, response := request(t, router, http.MethodDelete, deletePath, normalToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", response["error"].(map[string]interface{})["code"])

	w, _ = request(t, router, http.MethodDelete, deletePath, superToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestHealthEndpointIntegration tests /api/v1/health with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router, _ := setupIntegrationEnv(t)

	w, response := request(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response["success"])
}
