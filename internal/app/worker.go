package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blair-ops/internal/config"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/messaging/kafka/producer"
	"blair-ops/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	infra, err := OpenInfra(cfg, false)
	if err != nil {
		return err
	}
	defer infra.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kafka.EnsureOutboxSchema(ctx, infra.SQLDB); err != nil {
		return err
	}

	outboxRepo := kafka.NewOutboxRepository(infra.SQLDB)

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
