// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint group onto the API router
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	productHandler := handlers.NewProductHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, logger)
	saleHandler := handlers.NewSaleHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg, logger)
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)
	notificationHandler := handlers.NewNotificationHandler(db, cfg, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(db, redisClient, cfg, logger)

	// Authentication
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.POST("/change-password", authHandler.ChangePassword)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	// Public catalog
	rg.GET("/products", productHandler.GetProducts)
	rg.GET("/products/:id", productHandler.GetProduct)
	rg.GET("/categories", productHandler.GetCategories)
	rg.GET("/notices", notificationHandler.GetNotices)

	// Cart (authenticated customers)
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/lines", cartHandler.AddLine)
		cart.PUT("/lines/:id", cartHandler.UpdateLine)
		cart.DELETE("/lines/:id", cartHandler.RemoveLine)
	}

	// Checkout and purchase history
	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/checkout", checkoutHandler.Checkout)
		protected.GET("/sales", saleHandler.GetMySales)
		protected.GET("/sales/:id", saleHandler.GetMySale)
		protected.GET("/sales/:id/receipt", saleHandler.GetReceipt)
		protected.POST("/payments", paymentHandler.Initiate)
		protected.GET("/payments/:id", paymentHandler.GetPayment)
		protected.POST("/payments/:id/settle", paymentHandler.Settle)
		protected.POST("/devices", notificationHandler.RegisterDevice)
		protected.DELETE("/devices", notificationHandler.UnregisterDevice)
	}

	// Back office
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.GET("/products/low-stock", productHandler.GetLowStockProducts)

		admin.POST("/categories", productHandler.CreateCategory)
		admin.PUT("/categories/:id", productHandler.UpdateCategory)

		admin.POST("/orders", checkoutHandler.PlaceOrder)

		admin.GET("/sales", saleHandler.ListSales)
		admin.GET("/sales/:id", saleHandler.GetSale)
		admin.GET("/sales/:id/payments", paymentHandler.ListBySale)
		admin.POST("/payments/:id/confirm-cash", paymentHandler.ConfirmCash)

		admin.POST("/inventory/:id/restock", inventoryHandler.Restock)
		admin.GET("/inventory/:id", inventoryHandler.GetStockLevel)
		admin.GET("/inventory/:id/movements", inventoryHandler.GetMovements)

		admin.GET("/notices", notificationHandler.ListNotices)
		admin.POST("/notices", notificationHandler.CreateNotice)
		admin.PUT("/notices/:id", notificationHandler.UpdateNotice)
		admin.DELETE("/notices/:id", notificationHandler.DeleteNotice)
		admin.POST("/notices/:id/dispatch", notificationHandler.DispatchNotice)

		admin.GET("/audit", authHandler.GetAuditTrail)

		admin.GET("/analytics/summary", analyticsHandler.GetRevenueSummary)
		admin.GET("/analytics/top-products", analyticsHandler.GetTopProducts)
		admin.GET("/analytics/categories", analyticsHandler.GetSalesByCategory)
		admin.GET("/analytics/daily", analyticsHandler.GetDailyRevenue)
	}
}
