package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/controllers"
	"github.com/haha7000/Promise-Cafe-Kiosk/middleware"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

func main() {
	log.Println("Starting Promise Cafe Kiosk API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
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
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed the daily-number counter so the first order of a fresh install
	// starts the cycle at 1
	var counter models.SystemSetting
	if err := db.Where("key = ?", "next_order_number").First(&counter).Error; err != nil {
		description := "Next kiosk display number (1-12)"
		seed := models.SystemSetting{
			Key:         "next_order_number",
			Value:       "1",
			Description: &description,
		}
		if err := db.Create(&seed).Error; err != nil {
			log.Fatalf("Failed to seed order number counter: %v", err)
		}
	}

	// Initialize S3-backed image storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Image storage ready (bucket: %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, menu image upload disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		// Kiosk-facing routes, no authentication
		v1.POST("/cells/auth", controllers.AuthenticateCell)
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/:orderId", controllers.GetOrder)
		v1.GET("/menus", controllers.GetMenus)
		v1.GET("/menus/:id", controllers.GetMenuDetail)
		v1.GET("/categories", controllers.GetCategories)

		// Admin login
		v1.POST("/auth/login", controllers.Login)

		// Administrator routes
		admin := v1.Group("")
		admin.Use(middleware.RequireAuth())
		{
			admin.GET("/auth/verify", controllers.VerifyToken)

			admin.GET("/orders", controllers.GetOrders)
			admin.PATCH("/orders/:orderId/status", controllers.UpdateOrderStatus)

			admin.GET("/cells", controllers.GetCells)
			admin.POST("/cells", controllers.CreateCell)
			admin.PUT("/cells/:id", controllers.UpdateCell)
			admin.PATCH("/cells/:id/active", controllers.ToggleCellActive)
			admin.POST("/cells/:id/charge", controllers.ChargeCell)
			admin.GET("/cells/:id/transactions", controllers.GetCellTransactions)

			admin.POST("/menus", controllers.CreateMenu)
			admin.PUT("/menus/:id", controllers.UpdateMenu)
			admin.PATCH("/menus/:id/sold-out", controllers.ToggleSoldOut)
			admin.POST("/menus/:id/image", controllers.UploadMenuImage)

			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.PATCH("/categories/:id/active", controllers.ToggleCategoryActive)

			admin.GET("/options", controllers.GetOptionGroups)
			admin.POST("/options", controllers.CreateOptionGroup)
			admin.PUT("/options/:group_id", controllers.UpdateOptionGroup)
			admin.POST("/options/:group_id/items", controllers.CreateOptionItem)
			admin.PUT("/options/:group_id/items/:item_id", controllers.UpdateOptionItem)
			admin.DELETE("/options/:group_id/items/:item_id", controllers.DeleteOptionItem)

			admin.GET("/settlements", controllers.GetSettlements)

			admin.GET("/statistics/dashboard", controllers.GetDashboardStatistics)
			admin.GET("/statistics/menus", controllers.GetMenuStatistics)
			admin.GET("/statistics/daily", controllers.GetDailyStatistics)
		}

		// SUPER administrator routes
		super := v1.Group("")
		super.Use(middleware.RequireAuth(), middleware.RequireSuper())
		{
			super.DELETE("/menus/:id", controllers.DeleteMenu)
			super.DELETE("/categories/:id", controllers.DeleteCategory)
			super.DELETE("/options/:group_id", controllers.DeleteOptionGroup)
			super.POST("/settlements/:date/confirm", controllers.ConfirmSettlement)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Promise Cafe Kiosk API is running",
	})
}
