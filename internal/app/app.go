package app

import (
	"os"

	"go-faceattend/internal/attendance"
	"go-faceattend/internal/config"
	"go-faceattend/internal/embedding"
	"go-faceattend/internal/identity"
	"go-faceattend/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, runs migrations, and registers all
// modules and routes on the router.
func BuildApp(router *gin.Engine) error {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, gormDB, redisClient, logger)
}

func migrate(db *gorm.DB) error {
	// The embedding column needs the pgvector extension before AutoMigrate
	// sees the vector type.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&identity.Identity{},
		&embedding.FaceEmbedding{},
		&attendance.Punch{},
		&config.SystemConfig{},
	); err != nil {
		return err
	}

	// counters and outbox_events are accessed through raw SQL, so they are
	// created the same way.
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type varchar(50) PRIMARY KEY,
			last_value   bigint NOT NULL DEFAULT 0,
			updated_at   timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			request_id     varchar(100),
			aggregate_type varchar(50) NOT NULL,
			aggregate_id   uuid NOT NULL,
			event_type     varchar(100) NOT NULL,
			topic          varchar(200) NOT NULL,
			payload        jsonb NOT NULL,
			status         varchar(20) NOT NULL DEFAULT 'pending',
			retry_count    int NOT NULL DEFAULT 0,
			error_message  varchar(500),
			processed_at   timestamptz,
			next_retry_at  timestamptz NOT NULL DEFAULT now(),
			created_at     timestamptz NOT NULL DEFAULT now(),
			updated_at     timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending
			ON outbox_events (status, next_retry_at)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
