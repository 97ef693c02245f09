package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpcrm/backend/internal/config"
	"github.com/kpcrm/backend/internal/http/handlers"
	"github.com/kpcrm/backend/internal/http/middleware"
	"github.com/kpcrm/backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	clientHandler *handlers.ClientHandler,
	templateHandler *handlers.TemplateHandler,
	proposalHandler *handlers.ProposalHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/exports", http.Dir(cfg.ExportStoragePath))

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.GET("/setup", authHandler.SetupStatus)
		authGroup.POST("/setup", authHandler.Setup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Лента активности аутентифицируется токеном в query
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/clients", clientHandler.CreateClient)
		protected.GET("/clients", clientHandler.ListClients)
		protected.GET("/clients/:id", middleware.UUIDValidator("id"), clientHandler.GetClient)
		protected.PUT("/clients/:id", middleware.UUIDValidator("id"), clientHandler.UpdateClient)
		protected.DELETE("/clients/:id", middleware.UUIDValidator("id"), clientHandler.DeleteClient)

		protected.POST("/templates", templateHandler.CreateTemplate)
		protected.POST("/templates/upload", templateHandler.UploadTemplate)
		protected.GET("/templates", templateHandler.ListTemplates)
		protected.GET("/templates/:id", middleware.UUIDValidator("id"), templateHandler.GetTemplate)
		protected.PUT("/templates/:id", middleware.UUIDValidator("id"), templateHandler.UpdateTemplate)
		protected.DELETE("/templates/:id", middleware.UUIDValidator("id"), templateHandler.DeleteTemplate)

		protected.POST("/proposals", proposalHandler.CreateProposal)
		protected.GET("/proposals", proposalHandler.ListProposals)
		protected.POST("/proposals/preview", proposalHandler.PreviewProposal)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.GetProposal)
		protected.PUT("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.UpdateProposal)
		protected.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.DeleteProposal)
		protected.PUT("/proposals/:id/status", middleware.UUIDValidator("id"), proposalHandler.UpdateStatus)
		protected.POST("/proposals/:id/render", middleware.UUIDValidator("id"), proposalHandler.RenderProposal)

		// Экспорт тяжёлый из-за wkhtmltopdf, поэтому со своим лимитом
		exportRateLimit := middleware.RateLimitMiddleware(30, cfg.RateLimitPeriod)
		protected.GET("/proposals/:id/export", middleware.UUIDValidator("id"), exportRateLimit, proposalHandler.ExportProposal)

		protected.GET("/render/variables", proposalHandler.ListRenderVariables)
	}

	return r
}
