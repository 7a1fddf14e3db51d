package cast

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=cast_repo.go -destination=mock/cast_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Cast) error
	FindAll(ctx context.Context) ([]Cast, error)
	DeleteByName(ctx context.Context, name string) error
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

func (r *repository) Create(ctx context.Context, c *Cast) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Cast, error) {
	var rows []Cast
	err := r.conn(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// DeleteByName returns gorm.ErrRecordNotFound when no row matched.
func (r *repository) DeleteByName(ctx context.Context, name string) error {
	res := r.conn(ctx).Where("name = ?", name).Delete(&Cast{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
