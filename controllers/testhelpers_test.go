package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
)

// setupTestDB opens an in-memory database with the full schema and installs
// it as the shared connection
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// setupTestRouter creates a Gin engine in test mode
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware injects an administrator into the request context the
// same way the auth middleware does
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("current_user", user)
		c.Next()
	}
}

func createTestAdmin(t *testing.T, db *gorm.DB, role string) *models.User {
	user := models.User{
		Username:     "admin-" + role,
		PasswordHash: "unused",
		Name:         "Test Admin",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCell(t *testing.T, db *gorm.DB, phoneLast4 string, balance int) *models.Cell {
	cell := models.Cell{
		Name:       "Joy Cell",
		Leader:     "Kim Minji",
		PhoneLast4: phoneLast4,
		Balance:    balance,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&cell).Error)
	return &cell
}

// doJSON performs a request with a JSON body and returns the recorder and the
// decoded response envelope
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func errorCode(response map[string]interface{}) string {
	errData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errData["code"].(string)
	return code
}
