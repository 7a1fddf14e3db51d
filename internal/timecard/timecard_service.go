package timecard

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"blair-ops/internal/events"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/shared/apperror"
	"blair-ops/internal/shared/contextutil"
	"blair-ops/internal/sheet"
	timecarderrors "blair-ops/internal/timecard/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultHistoryDays = 7
	importBatchSize    = 500
)

type Service interface {
	Clock(ctx context.Context, req ClockRequest) (ClockEventResponse, error)
	GetStatuses(ctx context.Context) (StatusResponse, error)
	GetHistory(ctx context.Context, filter HistoryFilter) ([]DayHistoryResponse, error)
	ExportHistory(ctx context.Context, filter HistoryFilter) (HistoryExport, error)
	ImportLegacy(ctx context.Context, rows []sheet.TimeCardRow) (ImportResult, error)
}

type Option func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) { s.logger = logger }
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
	sf         singleflight.Group
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, loc *time.Location, opts ...Option) Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &service{
		db:         db,
		repo:       repo,
		outboxRepo: outboxRepo,
		loc:        loc,
		now:        time.Now,
		logger:     zap.L().Named("timecard.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Clock(ctx context.Context, req ClockRequest) (ClockEventResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	name := strings.TrimSpace(req.CastName)
	if name == "" {
		return ClockEventResponse{}, timecarderrors.ErrCastNameRequired
	}
	kind, ok := ParseKind(req.Kind)
	if !ok {
		return ClockEventResponse{}, timecarderrors.ErrInvalidKind
	}

	now := s.now()
	timeOfDay := now.In(s.loc).Format("15:04")
	if strings.TrimSpace(req.TimeOfDay) != "" {
		timeOfDay = NormalizeClock(req.TimeOfDay)
		if timeOfDay == "" {
			return ClockEventResponse{}, timecarderrors.ErrInvalidTimeOfDay
		}
	}

	row := &ClockEvent{
		ID:         uuid.New(),
		RecordedAt: now.UTC(),
		CastName:   name,
		Kind:       kind,
		Label:      KindLabel(kind),
		WithGuest:  req.WithGuest,
		TimeOfDay:  timeOfDay,
		Source:     SourceApp,
		CreatedAt:  now.UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClockEventResponse{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Append(ctx, row); err != nil {
		return ClockEventResponse{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}

	if s.outboxRepo != nil {
		requestID := contextutil.GetRequestID(ctx)
		outboxEvent, err := kafka.NewOutboxEvent(
			requestID,
			"clock_event",
			row.ID.String(),
			events.TimecardRecordedEventType,
			events.TimecardRecordedTopic,
			events.TimecardRecordedEvent{
				EventType:  events.TimecardRecordedEventType,
				RequestID:  requestID,
				EventID:    row.ID.String(),
				CastName:   row.CastName,
				Kind:       string(row.Kind),
				Label:      row.Label,
				WithGuest:  row.WithGuest,
				TimeOfDay:  row.TimeOfDay,
				RecordedAt: row.RecordedAt,
			},
		)
		if err != nil {
			return ClockEventResponse{}, err
		}
		if err := s.outboxRepo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			return ClockEventResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ClockEventResponse{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}

	log.Info("clock event recorded",
		zap.String("event_id", row.ID.String()),
		zap.String("cast_name", row.CastName),
		zap.String("kind", string(row.Kind)),
		zap.Bool("with_guest", row.WithGuest),
	)
	return mapToResponse(*row), nil
}

// GetStatuses replays the full log. Concurrent callers share one replay but
// nothing is kept once it returns.
func (s *service) GetStatuses(ctx context.Context) (StatusResponse, error) {
	v, err, _ := s.sf.Do("statuses", func() (any, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return ReduceStatus(rows), nil
	})
	if err != nil {
		return StatusResponse{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}

	status := v.(Status)
	active := status.Active()
	statuses := make(map[string]Kind, len(status))
	for name, k := range status {
		statuses[name] = k
	}
	return StatusResponse{
		Statuses:    statuses,
		Active:      active,
		ActiveCount: len(active),
	}, nil
}

func (s *service) GetHistory(ctx context.Context, filter HistoryFilter) ([]DayHistoryResponse, error) {
	days, _, _, err := s.history(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapDays(days), nil
}

// ExportHistory renders the history workbook along with the inclusive date
// range it covers, defaults applied.
func (s *service) ExportHistory(ctx context.Context, filter HistoryFilter) (HistoryExport, error) {
	days, from, to, err := s.history(ctx, filter)
	if err != nil {
		return HistoryExport{}, err
	}

	out := make([]sheet.HistoryDay, len(days))
	for i, d := range days {
		shifts := make([]sheet.HistoryShift, len(d.Shifts))
		for j, r := range d.Shifts {
			shifts[j] = sheet.HistoryShift{
				CastName:  r.CastName,
				InTime:    r.InTime,
				OutTime:   r.OutTime,
				WithGuest: r.WithGuest,
			}
		}
		out[i] = sheet.HistoryDay{Date: d.Date, Shifts: shifts}
	}

	buf, err := sheet.BuildHistoryWorkbook(out)
	if err != nil {
		return HistoryExport{}, apperror.ErrInternal.WithCause(fmt.Errorf("build history workbook: %w", err))
	}
	return HistoryExport{
		StartDate: from.Format(time.DateOnly),
		EndDate:   to.AddDate(0, 0, -1).Format(time.DateOnly),
		Workbook:  buf,
	}, nil
}

// ImportLegacy appends sheet rows as they were written, label only. Rows
// without a name are skipped. No outbox events are produced since the rows
// already exist in the sheet. CreatedAt advances by a microsecond per row so
// the sheet order survives rows that share a timestamp.
func (s *service) ImportLegacy(ctx context.Context, rows []sheet.TimeCardRow) (ImportResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	var res ImportResult
	batch := make([]ClockEvent, 0, len(rows))
	now := s.now().UTC()
	for _, r := range rows {
		name := strings.TrimSpace(r.CastName)
		if name == "" {
			res.Skipped++
			continue
		}
		batch = append(batch, ClockEvent{
			ID:         uuid.New(),
			RecordedAt: r.RecordedAt.UTC(),
			CastName:   name,
			Label:      r.Label,
			WithGuest:  r.WithGuest,
			TimeOfDay:  NormalizeClock(r.TimeOfDay),
			Source:     SourceSheetImport,
			CreatedAt:  now.Add(time.Duration(len(batch)) * time.Microsecond),
		})
	}
	if len(batch) == 0 {
		return res, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for start := 0; start < len(batch); start += importBatchSize {
		end := min(start+importBatchSize, len(batch))
		if err := qtx.AppendBatch(ctx, batch[start:end]); err != nil {
			return ImportResult{}, timecarderrors.ErrLogUnavailable.WithCause(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}

	res.Imported = len(batch)
	log.Info("legacy time card imported",
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// history returns the day groups and the half-open range they were read from.
func (s *service) history(ctx context.Context, filter HistoryFilter) ([]DayShifts, time.Time, time.Time, error) {
	from, to, err := s.dateRange(filter)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	rows, err := s.repo.FindByRange(ctx, from, to)
	if err != nil {
		return nil, time.Time{}, time.Time{}, timecarderrors.ErrLogUnavailable.WithCause(err)
	}
	return GroupByDay(rows, s.loc), from, to, nil
}

// dateRange turns the inclusive venue-local date filter into a half-open
// UTC-comparable interval. It defaults to the last seven days.
func (s *service) dateRange(filter HistoryFilter) (time.Time, time.Time, error) {
	today := s.now().In(s.loc)
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)

	if v := strings.TrimSpace(filter.EndDate); v != "" {
		t, err := time.ParseInLocation(time.DateOnly, v, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, timecarderrors.ErrInvalidDateRange
		}
		end = t
	}

	start := end.AddDate(0, 0, -(defaultHistoryDays - 1))
	if v := strings.TrimSpace(filter.StartDate); v != "" {
		t, err := time.ParseInLocation(time.DateOnly, v, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, timecarderrors.ErrInvalidDateRange
		}
		start = t
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, timecarderrors.ErrInvalidDateRange
	}
	return start, end.AddDate(0, 0, 1), nil
}
