package slip

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"blair-ops/internal/events"
	"blair-ops/internal/messaging/kafka"
	"blair-ops/internal/shared/contextutil"
	sliperrors "blair-ops/internal/slip/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req SlipRequest) (SlipResponse, error)
	Update(ctx context.Context, id string, req SlipRequest) (SlipResponse, error)
	GetByID(ctx context.Context, id string) (SlipResponse, error)
	GetAll(ctx context.Context, filter SlipFilter) (SlipListResponse, error)
	GetDailySales(ctx context.Context, filter SlipFilter) (SalesResponse, error)
	GetToday(ctx context.Context) (SlipListResponse, error)
	Delete(ctx context.Context, id string) error
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
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
		logger:     zap.L().Named("slip.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req SlipRequest) (SlipResponse, error) {
	row, err := s.buildSlip(req)
	if err != nil {
		return SlipResponse{}, err
	}
	now := s.now().UTC()
	row.ID = uuid.New()
	row.CreatedAt = now
	row.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SlipResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		return SlipResponse{}, err
	}
	if err := s.queue(ctx, tx, events.SlipActionCreated, *row); err != nil {
		return SlipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SlipResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("slip recorded",
		zap.String("slip_id", row.ID.String()),
		zap.String("date", row.SlipDate),
		zap.Int64("total", row.Total),
	)
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req SlipRequest) (SlipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SlipResponse{}, sliperrors.ErrInvalidSlipID
	}
	next, err := s.buildSlip(req)
	if err != nil {
		return SlipResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SlipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}

	row.SlipDate = next.SlipDate
	row.Name1, row.Name2, row.Name3 = next.Name1, next.Name2, next.Name3
	row.Total = next.Total
	row.SetInfo = next.SetInfo
	row.MineIce = next.MineIce
	row.UpdatedAt = s.now().UTC()

	if err := qtx.Update(ctx, row); err != nil {
		return SlipResponse{}, err
	}
	if err := s.queue(ctx, tx, events.SlipActionUpdated, *row); err != nil {
		return SlipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SlipResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SlipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SlipResponse{}, sliperrors.ErrInvalidSlipID
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SlipResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter SlipFilter) (SlipListResponse, error) {
	rg, err := toRange(filter)
	if err != nil {
		return SlipListResponse{}, err
	}
	rows, err := s.repo.FindAll(ctx, rg)
	if err != nil {
		return SlipListResponse{}, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetDailySales(ctx context.Context, filter SlipFilter) (SalesResponse, error) {
	rg, err := toRange(filter)
	if err != nil {
		return SalesResponse{}, err
	}
	rows, err := s.repo.SumByDate(ctx, rg)
	if err != nil {
		return SalesResponse{}, err
	}

	res := SalesResponse{Days: make([]DailySalesResponse, len(rows))}
	for i, r := range rows {
		res.Days[i] = DailySalesResponse{Date: r.SlipDate, SlipCount: r.SlipCount, Total: r.Total}
		res.Total += r.Total
	}
	return res, nil
}

// GetToday lists slips created since midnight in the venue location,
// whatever date they were booked for.
func (s *service) GetToday(ctx context.Context) (SlipListResponse, error) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	rows, err := s.repo.FindCreatedBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return SlipListResponse{}, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sliperrors.ErrInvalidSlipID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.queue(ctx, tx, events.SlipActionDeleted, Slip{ID: uuid.MustParse(id)}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("slip deleted", zap.String("slip_id", id))
	return nil
}

// buildSlip validates req and applies the per-cast split.
func (s *service) buildSlip(req SlipRequest) (*Slip, error) {
	date := strings.TrimSpace(req.SlipDate)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, sliperrors.ErrInvalidSlipDate
	}

	n1, n2, n3 := strings.TrimSpace(req.Name1), strings.TrimSpace(req.Name2), strings.TrimSpace(req.Name3)
	casts := castCount(n1, n2, n3)
	if casts == 0 {
		return nil, sliperrors.ErrCastRequired
	}

	return &Slip{
		SlipDate: date,
		Name1:    n1,
		Name2:    n2,
		Name3:    n3,
		Total:    splitTotal(req.Total, casts),
		SetInfo:  splitField(req.SetInfo, casts),
		MineIce:  splitField(req.MineIce, casts),
	}, nil
}

func (s *service) queue(ctx context.Context, tx *sql.Tx, action string, row Slip) error {
	if s.outboxRepo == nil {
		return nil
	}
	requestID := contextutil.GetRequestID(ctx)
	payload := events.SlipRecordedEvent{
		EventType:  events.SlipRecordedEventType,
		Action:     action,
		RequestID:  requestID,
		SlipID:     row.ID.String(),
		SlipDate:   row.SlipDate,
		Names:      row.Names(),
		Total:      row.Total,
		SetInfo:    row.SetInfo,
		MineIce:    row.MineIce,
		OccurredAt: s.now().UTC(),
	}
	ev, err := kafka.NewOutboxEvent(requestID, "slip", row.ID.String(), events.SlipRecordedEventType, events.SlipRecordedTopic, payload)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, ev)
}

func toRange(filter SlipFilter) (DateRange, error) {
	rg := DateRange{From: strings.TrimSpace(filter.StartDate), To: strings.TrimSpace(filter.EndDate)}
	for _, v := range []string{rg.From, rg.To} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return DateRange{}, sliperrors.ErrInvalidDateRange
		}
	}
	if rg.From != "" && rg.To != "" && rg.From > rg.To {
		return DateRange{}, sliperrors.ErrInvalidDateRange
	}
	return rg, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sliperrors.ErrSlipNotFound
	}
	return err
}
