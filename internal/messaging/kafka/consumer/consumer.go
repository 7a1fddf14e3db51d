package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blair-ops/internal/events"
	"blair-ops/internal/sheet"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// SheetMirror receives the records the consumer copies into the workbook.
type SheetMirror interface {
	AppendClockEvent(ctx context.Context, row sheet.TimeCardRow) error
	UpsertSlip(ctx context.Context, row sheet.SlipRow) error
	RemoveSlip(ctx context.Context, id string) error
}

// Retry delays for a message the mirror failed to apply.
var (
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
)

// ConsumeSheetMirror applies time-card and slip events to the mirror until
// ctx is cancelled. Undecodable messages are committed and dropped. A failed
// write is retried on the same message, since a later commit would move the
// group offset past it.
func ConsumeSheetMirror(
	ctx context.Context,
	reader MessageReader,
	mirror SheetMirror,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.sheet_mirror")
	log.Info("sheet mirror consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("sheet mirror consumer stopped")
				return
			}
			log.Error("fetch sheet mirror message failed", zap.Error(err))
			continue
		}

		if !applyWithRetry(ctx, mirror, msg, log) {
			log.Info("sheet mirror consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit sheet mirror message failed", zap.Error(err))
			continue
		}

		log.Debug("sheet mirror updated",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
		)
	}
}

// applyWithRetry reports false only when ctx ends before msg is applied.
func applyWithRetry(ctx context.Context, mirror SheetMirror, msg kafkago.Message, log *zap.Logger) bool {
	delay := initialRetryDelay
	for attempt := 1; ; attempt++ {
		err := applyMessage(ctx, mirror, msg)
		if err == nil {
			return true
		}
		if isPoison(err) {
			log.Error("dropping undecodable message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return true
		}

		log.Error("apply message to sheet failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

type poisonError struct{ err error }

func (e poisonError) Error() string { return e.err.Error() }
func (e poisonError) Unwrap() error { return e.err }

func isPoison(err error) bool {
	_, ok := err.(poisonError)
	return ok
}

func applyMessage(ctx context.Context, mirror SheetMirror, msg kafkago.Message) error {
	switch msg.Topic {
	case events.TimecardRecordedTopic:
		var ev events.TimecardRecordedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return poisonError{fmt.Errorf("decode timecard event: %w", err)}
		}
		return mirror.AppendClockEvent(ctx, sheet.TimeCardRow{
			RecordedAt: ev.RecordedAt,
			CastName:   ev.CastName,
			Label:      ev.Label,
			WithGuest:  ev.WithGuest,
			TimeOfDay:  ev.TimeOfDay,
			EventID:    ev.EventID,
		})

	case events.SlipRecordedTopic:
		var ev events.SlipRecordedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			return poisonError{fmt.Errorf("decode slip event: %w", err)}
		}
		if ev.Action == events.SlipActionDeleted {
			return mirror.RemoveSlip(ctx, ev.SlipID)
		}
		row := sheet.SlipRow{
			ID:      ev.SlipID,
			Date:    ev.SlipDate,
			Total:   ev.Total,
			SetInfo: ev.SetInfo,
			MineIce: ev.MineIce,
		}
		copy(row.Names[:], ev.Names)
		return mirror.UpsertSlip(ctx, row)

	default:
		return poisonError{fmt.Errorf("unexpected topic %q", msg.Topic)}
	}
}
