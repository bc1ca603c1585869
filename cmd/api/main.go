package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/xgym/backoffice-api/internal/application/service"
	"github.com/xgym/backoffice-api/internal/config"
	"github.com/xgym/backoffice-api/internal/infrastructure/database"
	"github.com/xgym/backoffice-api/internal/infrastructure/repository"
	"github.com/xgym/backoffice-api/internal/presentation/http/handler"
	"github.com/xgym/backoffice-api/internal/presentation/http/routes"
	"github.com/xgym/backoffice-api/pkg/logging"
	"github.com/xgym/backoffice-api/pkg/oauth"
	"github.com/xgym/backoffice-api/pkg/utils"
)

func main() {
	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		slog.Warn("failed to seed default data", "error", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	ptRepo := repository.NewPTRepository(db)
	groupClassRepo := repository.NewGroupClassRepository(db)
	physioRepo := repository.NewPhysiotherapyRepository(db)
	nutritionRepo := repository.NewNutritionRepository(db)
	dayUseRepo := repository.NewDayUseRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	pointsHistoryRepo := repository.NewPointsHistoryRepository(db)

	// Initialize Google OAuth service
	googleOAuth := oauth.NewGoogleOAuthService(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	// Settlement pipeline
	allocator := service.NewProbeAllocator(db, cfg.Counter.ReceiptSeed)
	pointsLedger := service.NewPointsLedger(db, pointsHistoryRepo)
	licenseGate := service.NewRemoteLicenseGate(db, cfg.License)
	commissionService := service.NewCommissionService(userRepo, commissionRepo)
	settlement := service.NewSettlement(db, allocator, pointsLedger, licenseGate, settingsRepo, commissionService)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuth)
	memberService := service.NewMemberService(memberRepo, settlement)
	ptService := service.NewPTService(ptRepo, userRepo, settlement)
	groupClassService := service.NewGroupClassService(groupClassRepo, userRepo, settlement)
	physioService := service.NewPhysiotherapyService(physioRepo, userRepo, settlement)
	nutritionService := service.NewNutritionService(nutritionRepo, settlement)
	dayUseService := service.NewDayUseService(dayUseRepo, settlement)
	receiptService := service.NewReceiptService(receiptRepo, allocator)
	settingsService := service.NewSettingsService(settingsRepo)
	attendanceService := service.NewAttendanceService(db, pointsLedger, settingsRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Member:        handler.NewMemberHandler(memberService, attendanceService, pointsLedger),
		PT:            handler.NewPTHandler(ptService),
		GroupClass:    handler.NewGroupClassHandler(groupClassService),
		Physiotherapy: handler.NewPhysiotherapyHandler(physioService),
		Nutrition:     handler.NewNutritionHandler(nutritionService),
		DayUse:        handler.NewDayUseHandler(dayUseService),
		Receipt:       handler.NewReceiptHandler(receiptService),
		Settings:      handler.NewSettingsHandler(settingsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "service", cfg.App.Name, "port", port, "env", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
