package timecard

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Repository is the append-only log store. There is deliberately no update
// or delete.
//
//go:generate mockgen -source=timecard_repo.go -destination=mock/timecard_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, e *ClockEvent) error
	AppendBatch(ctx context.Context, events []ClockEvent) error
	FindAll(ctx context.Context) ([]ClockEvent, error)
	FindByRange(ctx context.Context, from, to time.Time) ([]ClockEvent, error)
}

// logOrder is chronological order. Legacy rows share a date-only
// recorded_at, so time_of_day orders within it and created_at keeps the
// original sheet order.
const logOrder = "recorded_at ASC, time_of_day ASC, created_at ASC"

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Append(ctx context.Context, e *ClockEvent) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) AppendBatch(ctx context.Context, events []ClockEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(events, 200).Error
}

func (r *repository) FindAll(ctx context.Context) ([]ClockEvent, error) {
	var rows []ClockEvent
	err := r.conn(ctx).
		Order(logOrder).
		Find(&rows).Error
	return rows, err
}

// FindByRange returns events with from <= recorded_at < to, oldest first.
func (r *repository) FindByRange(ctx context.Context, from, to time.Time) ([]ClockEvent, error) {
	var rows []ClockEvent
	err := r.conn(ctx).
		Where("recorded_at >= ? AND recorded_at < ?", from, to).
		Order(logOrder).
		Find(&rows).Error
	return rows, err
}
