package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"blair-ops/internal/cast"
	"blair-ops/internal/config"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/middleware"
	"blair-ops/internal/shared/connection"
	"blair-ops/internal/slip"
	"blair-ops/internal/timecard"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections a process opens once at startup.
type Infra struct {
	Cfg    *config.Config
	Loc    *time.Location
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

// Close releases every connection Infra opened.
func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

// OpenInfra connects to Postgres and, when REDIS_ADDR is set, Redis.
func OpenInfra(cfg *config.Config, withRedis bool) (*Infra, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.DBRetries,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{Cfg: cfg, Loc: loc, GormDB: gormDB, SQLDB: sqlDB}

	if withRedis && cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBRetries)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
	}

	return infra, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(ctx context.Context, infra *Infra) error {
	if err := infra.GormDB.WithContext(ctx).AutoMigrate(
		&timecard.ClockEvent{},
		&cast.Cast{},
		&slip.Slip{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := kafka.EnsureOutboxSchema(ctx, infra.SQLDB); err != nil {
		return fmt.Errorf("ensure outbox schema: %w", err)
	}
	return nil
}

// BuildApp connects infrastructure, migrates and mounts every module on
// router. The returned Infra must be closed by the caller.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config) (*Infra, error) {
	logger := zap.L().Named("app")

	infra, err := OpenInfra(cfg, true)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, infra); err != nil {
		infra.Close()
		return nil, err
	}
	logger.Info("database schema ready")

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := registerModules(ctx, router, infra); err != nil {
		infra.Close()
		return nil, err
	}

	return infra, nil
}
