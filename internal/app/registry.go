package app

import (
	"context"

	"blair-ops/internal/cast"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/ocr"
	"blair-ops/internal/slip"
	"blair-ops/internal/timecard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(ctx context.Context, router *gin.Engine, infra *Infra) error {
	cfg := infra.Cfg

	// --- Repositories ---
	timecardRepo := timecard.NewRepository(infra.GormDB)
	castRepo := cast.NewRepository(infra.GormDB)
	slipRepo := slip.NewRepository(infra.GormDB)
	outboxRepo := kafka.NewOutboxRepository(infra.SQLDB)

	// --- Services ---
	timecardService := timecard.NewService(infra.SQLDB, timecardRepo, outboxRepo, infra.Loc)
	castService := cast.NewService(infra.SQLDB, castRepo, infra.Redis)
	slipService := slip.NewService(infra.SQLDB, slipRepo, outboxRepo, infra.Loc)

	var extractor ocr.Extractor
	if cfg.GeminiAPIKey != "" {
		gemini, err := ocr.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		extractor = gemini
	} else {
		zap.L().Named("app").Warn("GEMINI_API_KEY not set, slip OCR disabled")
	}
	ocrService := ocr.NewService(extractor, castService, infra.Loc)

	// --- Handlers ---
	timecardHandler := timecard.NewHandlerWithRedis(timecardService, infra.Redis)
	castHandler := cast.NewHandler(castService)
	slipHandler := slip.NewHandlerWithRedis(slipService, infra.Redis)
	ocrHandler := ocr.NewHandler(ocrService, cfg.OCRMaxBytes)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		timecard.RegisterRoutes(api, timecardHandler, infra.Redis)
		cast.RegisterRoutes(api, castHandler)
		slip.RegisterRoutes(api, slipHandler, infra.Redis)
		ocr.RegisterRoutes(api, ocrHandler, rate.Limit(cfg.OCRRateLimit), cfg.OCRBurst)
	}

	return nil
}
