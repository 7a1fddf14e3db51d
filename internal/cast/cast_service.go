package cast

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	casterrors "blair-ops/internal/cast/errors"
	"blair-ops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	CastAllKey  = "casts:all"
	castListTTL = 30 * time.Minute
)

type Service interface {
	Create(ctx context.Context, req CreateCastRequest) (CastResponse, error)
	GetAll(ctx context.Context) ([]CastResponse, error)
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client) Service {
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: zap.L().Named("cast.service"),
	}
}

func (s *service) Create(ctx context.Context, req CreateCastRequest) (CastResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CastResponse{}, casterrors.ErrCastNameRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CastResponse{}, err
	}
	defer tx.Rollback()

	row := &Cast{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		return CastResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return CastResponse{}, err
	}

	s.invalidate(ctx)
	contextutil.GetLogger(ctx, s.logger).Info("cast added", zap.String("name", name))
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]CastResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, CastAllKey).Result()
		if err == nil {
			var resp []CastResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CastAllKey, func() (any, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(rows)
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, CastAllKey, data, castListTTL).Err(); err != nil {
					s.logger.Warn("cache cast list failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]CastResponse), nil
}

func (s *service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return casterrors.ErrCastNameRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeleteByName(ctx, name); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx)
	contextutil.GetLogger(ctx, s.logger).Info("cast removed", zap.String("name", name))
	return nil
}

// Names is the roster as plain names, sorted.
func (s *service) Names(ctx context.Context) ([]string, error) {
	rows, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CastAllKey).Err(); err != nil {
		s.logger.Error("invalidate cast cache failed", zap.String("key", CastAllKey), zap.Error(err))
	}
}
