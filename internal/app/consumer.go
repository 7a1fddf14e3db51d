package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blair-ops/internal/config"
	"blair-ops/internal/events"
	"blair-ops/internal/messaging/kafka/consumer"
	"blair-ops/internal/sheet"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer mirrors time-card and slip events into the workbook at
// SHEET_PATH until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	mirror := sheet.NewMirror(cfg.SheetPath, loc)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupID:        cfg.KafkaGroupID,
		GroupTopics:    []string{events.TimecardRecordedTopic, events.SlipRecordedTopic},
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeSheetMirror(ctx, reader, mirror, logger)
	}()

	logger.Info("mirroring into workbook", zap.String("path", mirror.Path()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
