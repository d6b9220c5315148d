package app

import (
	"context"
	"os"
	"time"

	"go-faceattend/internal/attendance"
	"go-faceattend/internal/auth"
	"go-faceattend/internal/authz"
	"go-faceattend/internal/config"
	"go-faceattend/internal/embedding"
	"go-faceattend/internal/identity"
	"go-faceattend/internal/messaging/kafka"
	"go-faceattend/internal/payroll"
	"go-faceattend/internal/shared/counter"
	"go-faceattend/internal/vision"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	identityRepo := identity.NewRepository(gormDB)
	embeddingRepo := embedding.NewRepository(gormDB)
	punchRepo := attendance.NewRepository(gormDB)
	configRepo := config.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Core ---
	directory := identity.NewDirectory(identityRepo)
	authzService := authz.NewService(directory)
	matcher := embedding.NewMatcher(embeddingRepo, configRepo, logger)
	detector := vision.NewHTTPDetector(os.Getenv("VISION_URL"), 10*time.Second, logger)

	// --- Services ---
	identityService := identity.NewServiceWithOutbox(
		gormDB,
		identityRepo,
		embeddingRepo,
		detector,
		authzService,
		configRepo,
		counterRepo,
		identity.NewBcryptHasher(),
		outboxRepo,
		rdb,
		logger,
	)
	attendanceService := attendance.NewService(gormDB, punchRepo, identityRepo, detector, matcher, logger)
	payrollService := payroll.NewService(punchRepo, identityRepo, rdb, logger)
	configService := config.NewService(configRepo, authzService, logger)
	authService := auth.NewService(directory)

	// --- Handlers ---
	identityHandler := identity.NewHandlerWithRedis(identityService, rdb)
	attendanceHandler := attendance.NewHandler(attendanceService)
	payrollHandler := payroll.NewHandler(payrollService)
	configHandler := config.NewHandler(configService)
	authHandler := auth.NewHandler(authService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		identity.RegisterRoutes(api, identityHandler, rdb)
		attendance.RegisterRoutes(api, attendanceHandler)
		payroll.RegisterRoutes(api, payrollHandler)
		config.RegisterRoutes(api, configHandler)
	}

	// Seed the first master admin when the directory is empty.
	bootstrapUser := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	bootstrapPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if bootstrapUser != "" && bootstrapPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := identityService.EnsureBootstrap(ctx, bootstrapUser, bootstrapPassword); err != nil {
			return err
		}
	}

	return nil
}
