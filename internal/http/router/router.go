package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cleancity-backend/internal/config"
	"github.com/ignatzorin/cleancity-backend/internal/http/handlers"
	"github.com/ignatzorin/cleancity-backend/internal/http/middleware"
	"github.com/ignatzorin/cleancity-backend/internal/models"
	"github.com/ignatzorin/cleancity-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	pickupHandler *handlers.PickupHandler,
	agencyHandler *handlers.AgencyHandler,
	campaignHandler *handlers.CampaignHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/uploads", http.Dir(cfg.UploadDir))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/user", authHandler.CurrentUser)
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/reports", reportHandler.List)
	api.GET("/agencies", agencyHandler.List)
	api.GET("/campaigns", campaignHandler.List)
	api.GET("/analytics/reports", reportHandler.Stats)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/reports", reportHandler.Create)
		protected.GET("/reports/my", reportHandler.ListMy)
		protected.GET("/reports/:id", middleware.UUIDValidator("id"), reportHandler.Get)

		protected.POST("/pickup-requests", pickupHandler.Create)
		protected.GET("/pickup-requests", pickupHandler.List)
		protected.GET("/pickup-requests/my", pickupHandler.ListMy)
		protected.GET("/pickup-requests/:id", middleware.UUIDValidator("id"), pickupHandler.Get)

		protected.GET("/agencies/my", agencyHandler.MyMembership)
		protected.GET("/agencies/:id", middleware.UUIDValidator("id"), agencyHandler.Get)
		protected.GET("/agencies/:id/reports", middleware.UUIDValidator("id"), agencyHandler.Reports)
		protected.GET("/agencies/:id/pickups", middleware.UUIDValidator("id"), agencyHandler.Pickups)
		protected.GET("/agencies/:id/stats", middleware.UUIDValidator("id"), agencyHandler.Stats)

		protected.GET("/campaigns/:id", middleware.UUIDValidator("id"), campaignHandler.Get)
		protected.POST("/campaigns/:id/join", middleware.UUIDValidator("id"), campaignHandler.Join)
	}

	// Переходы жизненного цикла доступны агентствам и администраторам
	operator := api.Group("/")
	operator.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRoles(models.RoleAgency, models.RoleAdmin))
	{
		operator.PATCH("/reports/:id/status", middleware.UUIDValidator("id"), reportHandler.UpdateStatus)
		operator.PATCH("/pickup-requests/:id/status", middleware.UUIDValidator("id"), pickupHandler.UpdateStatus)
	}

	// Административные маршруты
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/agencies", agencyHandler.Create)
		admin.PATCH("/agencies/:id/approval", middleware.UUIDValidator("id"), agencyHandler.SetApproval)
		admin.POST("/agencies/:id/members", middleware.UUIDValidator("id"), agencyHandler.AddMember)

		admin.POST("/campaigns", campaignHandler.Create)
	}

	return r
}
