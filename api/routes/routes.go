package routes

import (
	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/ArowuTest/customerconnect-backend/internal/handlers"
	"github.com/ArowuTest/customerconnect-backend/internal/middleware"
	"github.com/ArowuTest/customerconnect-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandlerDependencies holds every handler the router mounts
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	CustomerHandler  *handlers.CustomerHandler
	OrderHandler     *handlers.OrderHandler
	SegmentHandler   *handlers.SegmentHandler
	CampaignHandler  *handlers.CampaignHandler
	AIHandler        *handlers.AIHandler
	DeliveryHandler  *handlers.DeliveryHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, tokens *jwt.TokenService, logger *logrus.Logger) *gin.Engine {
	switch config.Environment(cfg.Environment) {
	case config.Production:
		gin.SetMode(gin.ReleaseMode)
	case config.Test:
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", handlers.Health(cfg.Environment))

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/google", deps.AuthHandler.Google)
			auth.GET("/google/callback", deps.AuthHandler.GoogleCallback)
		}

		public.POST("/delivery/receipt",
			middleware.ReceiptSecretMiddleware(cfg.Delivery.ReceiptSecret),
			deps.DeliveryHandler.Receipt)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(tokens, logger))
	{
		users := protected.Group("/users")
		{
			users.GET("/profile", deps.UserHandler.GetProfile)
			users.PUT("/profile", deps.UserHandler.UpdateProfile)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", deps.CustomerHandler.List)
			customers.POST("", deps.CustomerHandler.Create)
			customers.GET("/:id", deps.CustomerHandler.Get)
			customers.PUT("/:id", deps.CustomerHandler.Update)
			customers.DELETE("/:id", deps.CustomerHandler.Delete)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", deps.OrderHandler.List)
			orders.POST("", deps.OrderHandler.Create)
			orders.GET("/:id", deps.OrderHandler.Get)
		}

		segments := protected.Group("/segments")
		{
			segments.GET("", deps.SegmentHandler.List)
			segments.POST("", deps.SegmentHandler.Create)
			segments.POST("/preview", deps.SegmentHandler.Preview)
			segments.GET("/:id", deps.SegmentHandler.Get)
			segments.PUT("/:id", deps.SegmentHandler.Update)
			segments.DELETE("/:id", deps.SegmentHandler.Delete)
			segments.GET("/:id/customers", deps.SegmentHandler.Customers)
		}

		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", deps.CampaignHandler.List)
			campaigns.POST("", deps.CampaignHandler.Create)
			campaigns.GET("/:id", deps.CampaignHandler.Get)
			campaigns.PUT("/:id", deps.CampaignHandler.Update)
			campaigns.DELETE("/:id", deps.CampaignHandler.Delete)
			campaigns.POST("/:id/send", deps.CampaignHandler.Send)
			campaigns.POST("/:id/resume", deps.CampaignHandler.Resume)
			campaigns.GET("/:id/insights", deps.CampaignHandler.Insights)
		}

		ai := protected.Group("/ai")
		{
			ai.POST("/analyze/:campaignId", deps.AIHandler.Analyze)
			ai.POST("/chat", deps.AIHandler.Chat)
		}

		delivery := protected.Group("/delivery")
		{
			delivery.GET("/logs", deps.DeliveryHandler.Logs)
			delivery.POST("/send", deps.DeliveryHandler.Send)
		}

		protected.GET("/analytics/dashboard", deps.AnalyticsHandler.Dashboard)
	}

	return router
}
