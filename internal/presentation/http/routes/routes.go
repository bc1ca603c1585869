package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xgym/backoffice-api/internal/config"
	"github.com/xgym/backoffice-api/internal/presentation/http/handler"
	"github.com/xgym/backoffice-api/internal/presentation/http/middleware"
	"github.com/xgym/backoffice-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	Member        *handler.MemberHandler
	PT            *handler.PTHandler
	GroupClass    *handler.GroupClassHandler
	Physiotherapy *handler.PhysiotherapyHandler
	Nutrition     *handler.NutritionHandler
	DayUse        *handler.DayUseHandler
	Receipt       *handler.ReceiptHandler
	Settings      *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := middleware.RequireRole("admin")

	// Auth/Profile routes
	protected.GET("/profile", h.Auth.Profile)
	protected.POST("/auth/register", admin, h.Auth.Register)
	protected.GET("/staff", admin, h.Auth.ListStaff)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", admin, h.Settings.Update)

	// Members
	members := protected.Group("/members")
	{
		members.POST("", h.Member.Create)
		members.GET("", h.Member.List)
		members.GET("/:id", h.Member.Get)
		members.PUT("/:id", h.Member.Update)
		members.DELETE("/:id", admin, h.Member.Delete)
		members.GET("/:id/points", h.Member.Points)
		members.GET("/number/:number", h.Member.GetByNumber)
		members.POST("/number/:number/renew", h.Member.Renew)
		members.POST("/number/:number/upgrade", h.Member.Upgrade)
		members.POST("/number/:number/check-in", h.Member.CheckIn)
		members.POST("/number/:number/invitations", h.Member.UseInvitation)
	}

	// Personal training
	pt := protected.Group("/pt")
	{
		pt.POST("", h.PT.Create)
		pt.GET("", h.PT.List)
		pt.DELETE("/:id", admin, h.PT.Delete)
		pt.GET("/number/:number", h.PT.GetByNumber)
		pt.POST("/number/:number/renew", h.PT.Renew)
		pt.POST("/number/:number/pay-remaining", h.PT.PayRemaining)
		pt.POST("/number/:number/use-session", h.PT.UseSession)
	}

	// Group classes
	classes := protected.Group("/group-classes")
	{
		classes.POST("", h.GroupClass.Create)
		classes.GET("", h.GroupClass.List)
		classes.POST("/day-use", h.GroupClass.SellDayUse)
		classes.DELETE("/:id", admin, h.GroupClass.Delete)
		classes.GET("/number/:number", h.GroupClass.GetByNumber)
		classes.POST("/number/:number/renew", h.GroupClass.Renew)
		classes.POST("/number/:number/pay-remaining", h.GroupClass.PayRemaining)
		classes.POST("/barcode/:barcode/check-in", h.GroupClass.CheckIn)
	}

	// Physiotherapy
	physio := protected.Group("/physiotherapy")
	{
		physio.POST("", h.Physiotherapy.Create)
		physio.GET("", h.Physiotherapy.List)
		physio.DELETE("/:id", admin, h.Physiotherapy.Delete)
		physio.GET("/number/:number", h.Physiotherapy.GetByNumber)
		physio.POST("/number/:number/renew", h.Physiotherapy.Renew)
		physio.POST("/number/:number/pay-remaining", h.Physiotherapy.PayRemaining)
		physio.POST("/number/:number/use-session", h.Physiotherapy.UseSession)
	}

	// Nutrition
	nutrition := protected.Group("/nutrition")
	{
		nutrition.POST("", h.Nutrition.Create)
		nutrition.GET("", h.Nutrition.List)
		nutrition.DELETE("/:id", admin, h.Nutrition.Delete)
		nutrition.GET("/number/:number", h.Nutrition.GetByNumber)
		nutrition.POST("/number/:number/renew", h.Nutrition.Renew)
		nutrition.POST("/number/:number/pay-remaining", h.Nutrition.PayRemaining)
		nutrition.POST("/number/:number/use-follow-up", h.Nutrition.UseFollowUp)
	}

	// Day use
	dayUse := protected.Group("/day-use")
	{
		dayUse.POST("", h.DayUse.Create)
		dayUse.GET("", h.DayUse.List)
		dayUse.DELETE("/:id", admin, h.DayUse.Delete)
	}

	// Receipts
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.GET("/next-number", h.Receipt.NextNumber)
		receipts.POST("/counter/reset", admin, h.Receipt.ResetCounter)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.POST("/:id/cancel", h.Receipt.Cancel)
		receipts.POST("/:id/renumber", admin, h.Receipt.Renumber)
		receipts.DELETE("/:id", admin, h.Receipt.Delete)
		receipts.GET("/number/:number", h.Receipt.GetByNumber)
	}
}
