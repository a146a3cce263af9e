package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/api/handlers"
	"github.com/princeprakhar/eyewear-backend/internal/api/middleware"
	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/rating"
	"github.com/princeprakhar/eyewear-backend/internal/services"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires services and handlers onto router. rdb may be nil, in
// which case content is read uncached and rate limits are kept in memory.
func SetupRoutes(router *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg, rdb))
	router.Use(middleware.LocaleMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	contentService := services.NewContentService(db, rdb, cfg.CacheTTL, cfg.DefaultLocale, cfg.SupportedLocales)
	reviewService := services.NewReviewService(db, rating.NewAggregator(db))
	productService := services.NewProductService(db, contentService)
	adminService := services.NewAdminService(db)
	orderService := services.NewOrderService(db, emailService)
	wishlistService := services.NewWishlistService(db)
	supportService := services.NewSupportService(db, emailService)
	chatService := services.NewChatService(db)

	// Initialize handlers
	reviewHandler := handlers.NewReviewHandler(reviewService)
	productHandler := handlers.NewProductHandler(productService)
	contentHandler := handlers.NewContentHandler(contentService)
	adminHandler := handlers.NewAdminHandler(adminService)
	orderHandler := handlers.NewOrderHandler(orderService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	supportHandler := handlers.NewSupportHandler(supportService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	api := router.Group("/api/v1")
	authed := []gin.HandlerFunc{middleware.AuthMiddleware(cfg), middleware.CustomerOrAdmin()}

	// Product routes
	products := api.Group("/products")
	{
		products.GET("", productHandler.GetAllProducts)
		products.GET("/brands", productHandler.GetBrands)
		products.GET("/:id", productHandler.GetProduct)
	}

	// Localized content
	api.GET("/categories", contentHandler.ListCategories)
	api.GET("/categories/:slug", contentHandler.GetCategory)
	api.GET("/pages/:slug", contentHandler.GetPage)
	api.GET("/faqs", contentHandler.ListFAQs)

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.GET("/product/:product_id", reviewHandler.GetProductReviews)

		protected := reviews.Group("", authed...)
		protected.POST("", reviewHandler.CreateReview)
		protected.PUT("/:review_id", reviewHandler.UpdateReview)
		protected.DELETE("/:review_id", reviewHandler.DeleteReview)
		protected.POST("/:review_id/like", reviewHandler.LikeReview)
		protected.POST("/:review_id/flag", reviewHandler.FlagReview)
	}

	// Order routes
	orders := api.Group("/orders", authed...)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
	}

	// Wishlist routes
	wishlist := api.Group("/wishlist", authed...)
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/:product_id", wishlistHandler.AddToWishlist)
		wishlist.DELETE("/:product_id", wishlistHandler.RemoveFromWishlist)
	}

	// Support routes
	support := api.Group("/support/tickets", authed...)
	{
		support.POST("", supportHandler.OpenTicket)
		support.GET("", supportHandler.ListTickets)
		support.GET("/unread", supportHandler.UnreadCount)
		support.GET("/:id", supportHandler.GetTicket)
		support.POST("/:id/messages", supportHandler.PostMessage)
	}

	// Chat routes
	chat := api.Group("/chat", authed...)
	{
		chat.POST("/sessions", chatHandler.CreateSession)
		chat.GET("/sessions", chatHandler.ListSessions)
		chat.GET("/unread", chatHandler.UnreadCount)
		chat.GET("/sessions/:session_id/messages", chatHandler.GetMessages)
		chat.POST("/sessions/:session_id/messages", chatHandler.PostMessage)
		chat.POST("/sessions/:session_id/archive", chatHandler.ArchiveSession)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.GET("/dashboard", adminHandler.GetDashboardStats)

		// Product management
		admin.POST("/products", adminHandler.CreateProduct)
		admin.POST("/products/upload/csv", adminHandler.UploadProductsCSV)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)

		// Review moderation
		admin.GET("/reviews/flagged", reviewHandler.GetFlaggedReviews)
		admin.POST("/reviews/:review_id/moderate", reviewHandler.ModerateReview)

		// Content management
		admin.POST("/categories", contentHandler.CreateCategory)
		admin.PUT("/categories/:id", contentHandler.UpdateCategory)
		admin.DELETE("/categories/:id", contentHandler.DeleteCategory)
		admin.POST("/pages", contentHandler.CreatePage)
		admin.PUT("/pages/:id", contentHandler.UpdatePage)
		admin.DELETE("/pages/:id", contentHandler.DeletePage)
		admin.POST("/faqs", contentHandler.CreateFAQ)
		admin.PUT("/faqs/:id", contentHandler.UpdateFAQ)
		admin.DELETE("/faqs/:id", contentHandler.DeleteFAQ)

		// Orders
		admin.GET("/orders", orderHandler.GetAllOrders)
		admin.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)

		// Support inbox
		admin.GET("/support/tickets", supportHandler.ListTickets)
		admin.GET("/support/unread", supportHandler.UnreadCount)
		admin.GET("/support/tickets/:id", supportHandler.GetTicket)
		admin.POST("/support/tickets/:id/messages", supportHandler.PostMessage)
		admin.POST("/support/tickets/:id/close", supportHandler.CloseTicket)

		// Chat replies
		admin.POST("/chat/sessions/:session_id/messages", chatHandler.PostAgentMessage)
	}

	logger.Info("Routes initialized successfully")
}
