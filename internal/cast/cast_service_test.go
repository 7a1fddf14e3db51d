package cast_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"blair-ops/internal/cast"
	casterrors "blair-ops/internal/cast/errors"
	castmock "blair-ops/internal/cast/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redismock redismock.ClientMock
	repo      *castmock.MockRepository
	service   cast.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := castmock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redismock: redisMock,
		repo:      repo,
		service:   cast.NewService(db, repo, rdb),
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestCastService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success invalidates the roster cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *cast.Cast) error {
			assert.Equal(t, "Aya", c.Name)
			return nil
		})
		deps.redismock.ExpectDel(cast.CastAllKey).SetVal(1)

		resp, err := deps.service.Create(ctx, cast.CreateCastRequest{Name: "  Aya  "})

		assert.NoError(t, err)
		assert.Equal(t, "Aya", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("blank name", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, cast.CreateCastRequest{Name: "   "})

		assert.ErrorIs(t, err, casterrors.ErrCastNameRequired)
	})

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_cast_name"})

		_, err := deps.service.Create(ctx, cast.CreateCastRequest{Name: "Aya"})

		assert.ErrorIs(t, err, casterrors.ErrCastAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestCastService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal([]cast.CastResponse{{ID: "1", Name: "Aya"}})
		deps.redismock.ExpectGet(cast.CastAllKey).SetVal(string(cached))

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Aya", resp[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(cast.CastAllKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return([]cast.Cast{{Name: "Aya"}, {Name: "Mio"}}, nil)
		deps.redismock.Regexp().ExpectSet(cast.CastAllKey, `.+`, 30*time.Minute).SetVal("OK")

		names, err := deps.service.Names(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []string{"Aya", "Mio"}, names)
	})

	t.Run("repo error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(cast.CastAllKey).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		_, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
	})
}

func TestCastService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().DeleteByName(ctx, "Aya").Return(nil)
		deps.redismock.ExpectDel(cast.CastAllKey).SetVal(1)

		assert.NoError(t, deps.service.Delete(ctx, "Aya"))
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().DeleteByName(ctx, "Ghost").Return(gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, "Ghost")

		assert.ErrorIs(t, err, casterrors.ErrCastNotFound)
	})
}
