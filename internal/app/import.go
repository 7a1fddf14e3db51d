package app

import (
	"context"
	"fmt"
	"os"

	"blair-ops/internal/config"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/sheet"
	"blair-ops/internal/timecard"

	"go.uber.org/zap"
)

// ImportLegacyTimeCard loads the 日時/名前/種別/同伴/打刻時間 rows of the
// workbook at path into the time-card log.
func ImportLegacyTimeCard(ctx context.Context, cfg *config.Config, path string) (timecard.ImportResult, error) {
	logger := zap.L().Named("app.sheetimport")

	f, err := os.Open(path)
	if err != nil {
		return timecard.ImportResult{}, err
	}
	defer f.Close()

	infra, err := OpenInfra(cfg, false)
	if err != nil {
		return timecard.ImportResult{}, err
	}
	defer infra.Close()

	if err := Migrate(ctx, infra); err != nil {
		return timecard.ImportResult{}, err
	}

	legacy, err := sheet.ReadLegacyTimeCard(f, infra.Loc)
	if err != nil {
		return timecard.ImportResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	service := timecard.NewService(
		infra.SQLDB,
		timecard.NewRepository(infra.GormDB),
		kafka.NewOutboxRepository(infra.SQLDB),
		infra.Loc,
	)

	result, err := service.ImportLegacy(ctx, legacy.Rows)
	if err != nil {
		return timecard.ImportResult{}, err
	}
	result.Skipped += legacy.Skipped

	logger.Info("legacy time card imported",
		zap.String("path", path),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
