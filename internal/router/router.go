// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/config"
	"github.com/restitch/restitch-backend/internal/handlers"
	"github.com/restitch/restitch-backend/internal/middleware"
	"github.com/restitch/restitch-backend/internal/services"
	"github.com/restitch/restitch-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	productService := services.NewProductService(db)
	bidService := services.NewBidService(db)
	chatService := services.NewChatService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	bidHandler := handlers.NewBidHandler(bidService)
	conversationHandler := handlers.NewConversationHandler(chatService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()
	limits := middleware.NewRateLimits(cfg.RateLimit)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(limits.API())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication routes
	auth := r.Group("/auth")
	auth.Use(limits.Auth())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/request-reset", authHandler.RequestPasswordReset)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	// Product routes
	products := r.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		protected := products.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PUT("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeleteProduct)
			protected.POST("/:id/image", limits.Uploads(), productHandler.UploadProductImage)
		}
	}

	// Bid routes
	bids := r.Group("/bids")
	{
		bids.GET("", bidHandler.GetBids)
		bids.GET("/:id", bidHandler.GetBid)

		protected := bids.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("", bidHandler.CreateBid)
			protected.PUT("/:id", bidHandler.UpdateBid)
			protected.DELETE("/:id", bidHandler.DeleteBid)
		}
	}

	// Conversation routes
	conversations := r.Group("/conversations")
	{
		conversations.POST("", middleware.OptionalAuth(), conversationHandler.CreateConversation)
		conversations.GET("", middleware.AuthRequired(), conversationHandler.GetConversations)
		conversations.GET("/:id", conversationHandler.GetConversation)
		conversations.DELETE("/:id", middleware.AuthRequired(), conversationHandler.DeleteConversation)
		conversations.GET("/:id/messages", conversationHandler.GetMessages)
		conversations.POST("/:id/messages", conversationHandler.AppendMessage)
	}

	return r
}
