package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/controllers"
	"github.com/kalakriti-studio/kalakriti-api/middleware"
	"github.com/kalakriti-studio/kalakriti-api/models"
	"github.com/kalakriti-studio/kalakriti-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Kalakriti Studio API server...")

	// Load configuration
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
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTimelineEntry{},
		&models.Coupon{},
		&models.CustomOrder{},
		&models.Review{},
		&models.ReturnRequest{},
		&models.NewsletterSubscriber{},
		&models.InventoryAdjustment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Optional services: the store runs without them, with the
	// corresponding endpoints answering 503
	if _, err := services.InitPaymentGateway(); err != nil {
		log.Printf("Payment gateway not available: %v", err)
	}
	if s3Service, err := services.InitS3Service(); err != nil {
		log.Printf("Image hosting not available: %v", err)
	} else {
		services.InitImageService(s3Service)
	}
	services.InitNotifier()

	// Initialize Gin router
	router := gin.Default()

	// CORS for the storefront
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.StoreBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(router)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes wires every API endpoint onto the router
func registerRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Auth
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", controllers.Logout)

		// Public catalog
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:slug", controllers.GetProduct)
		v1.GET("/products/:slug/reviews", controllers.ListReviews)

		// Public order tracking
		v1.GET("/track", controllers.TrackOrder)

		// Coupon preview at checkout
		v1.POST("/coupons/validate", controllers.ValidateCoupon)

		// Custom order requests are open to guests
		v1.POST("/custom-orders", controllers.CreateCustomOrder)

		// Newsletter
		v1.POST("/newsletter/subscribe", controllers.SubscribeNewsletter)
		v1.POST("/newsletter/unsubscribe", controllers.UnsubscribeNewsletter)
	}

	// Authenticated customer routes
	auth := v1.Group("")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/auth/me", controllers.GetMe)
		auth.DELETE("/auth/me", controllers.DeleteMe)

		auth.POST("/orders", controllers.CreateOrder)
		auth.GET("/orders", controllers.ListOrders)
		auth.GET("/orders/:id", controllers.GetOrder)
		auth.PUT("/orders/:id", controllers.UpdateOrder)

		auth.POST("/payment/create-order", controllers.CreatePaymentOrder)
		auth.POST("/payment/verify", controllers.VerifyPayment)

		auth.POST("/products/:slug/reviews", controllers.CreateReview)
		auth.POST("/returns", controllers.CreateReturn)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.GET("/orders", controllers.ListAdminOrders)
		admin.PUT("/orders/:id", controllers.UpdateAdminOrder)

		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		admin.PATCH("/inventory/:id", controllers.AdjustInventory)
		admin.GET("/inventory/low-stock", controllers.ListLowStockProducts)

		admin.POST("/coupons", controllers.CreateCoupon)
		admin.GET("/coupons", controllers.ListCoupons)
		admin.PUT("/coupons/:id", controllers.UpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

		admin.GET("/custom-orders", controllers.ListCustomOrders)
		admin.PUT("/custom-orders/:id", controllers.UpdateCustomOrder)

		admin.PUT("/reviews/:id/approve", controllers.ApproveReview)

		admin.GET("/returns", controllers.ListReturns)
		admin.PUT("/returns/:id", controllers.UpdateReturn)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Kalakriti Studio API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
