package slip

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// DateRange bounds slip_date inclusively. Empty sides are open.
type DateRange struct {
	From string
	To   string
}

//go:generate mockgen -source=slip_repo.go -destination=mock/slip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Slip) error
	Update(ctx context.Context, s *Slip) error
	FindByID(ctx context.Context, id string) (*Slip, error)
	FindAll(ctx context.Context, r DateRange) ([]Slip, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]Slip, error)
	SumByDate(ctx context.Context, r DateRange) ([]DailySales, error)
	Delete(ctx context.Context, id string) error
}

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

func (r *repository) Create(ctx context.Context, s *Slip) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Slip) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Slip, error) {
	var s Slip
	err := r.conn(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func applyRange(db *gorm.DB, rg DateRange) *gorm.DB {
	if rg.From != "" {
		db = db.Where("slip_date >= ?", rg.From)
	}
	if rg.To != "" {
		db = db.Where("slip_date <= ?", rg.To)
	}
	return db
}

func (r *repository) FindAll(ctx context.Context, rg DateRange) ([]Slip, error) {
	var rows []Slip
	err := applyRange(r.conn(ctx), rg).
		Order("slip_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]Slip, error) {
	var rows []Slip
	err := r.conn(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SumByDate(ctx context.Context, rg DateRange) ([]DailySales, error) {
	var rows []DailySales
	err := applyRange(r.conn(ctx).Model(&Slip{}), rg).
		Select("slip_date, COUNT(*) AS slip_count, COALESCE(SUM(total), 0) AS total").
		Group("slip_date").
		Order("slip_date DESC").
		Scan(&rows).Error
	return rows, err
}

// Delete returns gorm.ErrRecordNotFound when no row matched.
func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&Slip{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
