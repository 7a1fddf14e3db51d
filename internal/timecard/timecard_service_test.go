package timecard_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"blair-ops/internal/events"
	"blair-ops/internal/messaging/kafka"
	kafkamock "blair-ops/internal/messaging/kafka/mock"
	"blair-ops/internal/shared/contextutil"
	"blair-ops/internal/sheet"
	"blair-ops/internal/timecard"
	timecarderrors "blair-ops/internal/timecard/errors"
	"blair-ops/internal/timecard/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var jst = time.FixedZone("JST", 9*60*60)

// 2024-05-01 21:30 JST
var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *mock.MockRepository
	outbox  *kafkamock.MockOutboxRepository
	service timecard.Service
}

func setupServiceTest(t *testing.T) serviceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	outbox := kafkamock.NewMockOutboxRepository(ctrl)

	svc := timecard.NewService(db, repo, outbox, jst,
		timecard.WithClock(func() time.Time { return fixedNow }),
		timecard.WithLogger(zap.NewNop()),
	)
	return serviceDeps{sqlMock: sqlMock, repo: repo, outbox: outbox, service: svc}
}

func TestTimecardService_Clock(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")

	t.Run("appends event and queues outbox in one transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var stored *timecard.ClockEvent
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *timecard.ClockEvent) error {
			stored = e
			return nil
		})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
			assert.Equal(t, events.TimecardRecordedTopic, ev.Topic)
			assert.Equal(t, "req-1", ev.RequestID)
			var payload events.TimecardRecordedEvent
			assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
			assert.Equal(t, "Aya", payload.CastName)
			assert.Equal(t, "clock_in", payload.Kind)
			assert.True(t, payload.WithGuest)
			return nil
		})

		resp, err := deps.service.Clock(ctx, timecard.ClockRequest{CastName: "  Aya ", Kind: "clock_in", WithGuest: true})

		assert.NoError(t, err)
		assert.Equal(t, "Aya", resp.CastName)
		assert.Equal(t, timecard.KindClockIn, resp.Kind)
		assert.Equal(t, timecard.LabelClockIn, resp.Label)
		assert.Equal(t, "21:30", resp.TimeOfDay)
		assert.Equal(t, timecard.SourceApp, resp.Source)
		assert.True(t, stored.RecordedAt.Equal(fixedNow))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit time of day is normalised", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Append(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Clock(ctx, timecard.ClockRequest{CastName: "Mio", Kind: "退勤", TimeOfDay: "1:05"})

		assert.NoError(t, err)
		assert.Equal(t, "01:05", resp.TimeOfDay)
		assert.Equal(t, timecard.KindClockOut, resp.Kind)
	})

	t.Run("validation", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Clock(ctx, timecard.ClockRequest{CastName: "  ", Kind: "clock_in"})
		assert.ErrorIs(t, err, timecarderrors.ErrCastNameRequired)

		_, err = deps.service.Clock(ctx, timecard.ClockRequest{CastName: "Aya", Kind: "break"})
		assert.ErrorIs(t, err, timecarderrors.ErrInvalidKind)

		_, err = deps.service.Clock(ctx, timecard.ClockRequest{CastName: "Aya", Kind: "in", TimeOfDay: "25:99"})
		assert.ErrorIs(t, err, timecarderrors.ErrInvalidTimeOfDay)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Append(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

		_, err := deps.service.Clock(ctx, timecard.ClockRequest{CastName: "Aya", Kind: "clock_out"})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("store failure maps to unavailable", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Append(ctx, gomock.Any()).Return(errors.New("conn reset"))

		_, err := deps.service.Clock(ctx, timecard.ClockRequest{CastName: "Aya", Kind: "clock_out"})

		assert.ErrorIs(t, err, timecarderrors.ErrLogUnavailable)
	})
}

func TestTimecardService_GetStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("replays the log", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(ctx).Return([]timecard.ClockEvent{
			{CastName: "Aya", Kind: timecard.KindClockIn},
			{CastName: "Mio", Label: timecard.LabelClockIn},
			{CastName: "Ren", Kind: timecard.KindClockIn},
			{CastName: "Ren", Kind: timecard.KindClockOut},
			{CastName: "", Kind: timecard.KindClockIn},
		}, nil)

		resp, err := deps.service.GetStatuses(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp.Statuses, 3)
		assert.Equal(t, timecard.KindClockOut, resp.Statuses["Ren"])
		assert.Equal(t, []string{"Aya", "Mio"}, resp.Active)
		assert.Equal(t, 2, resp.ActiveCount)
	})

	t.Run("each read sees the latest write", func(t *testing.T) {
		deps := setupServiceTest(t)
		gomock.InOrder(
			deps.repo.EXPECT().FindAll(ctx).Return([]timecard.ClockEvent{{CastName: "Aya", Kind: timecard.KindClockIn}}, nil),
			deps.repo.EXPECT().FindAll(ctx).Return([]timecard.ClockEvent{
				{CastName: "Aya", Kind: timecard.KindClockIn},
				{CastName: "Aya", Kind: timecard.KindClockOut},
			}, nil),
		)

		first, err := deps.service.GetStatuses(ctx)
		assert.NoError(t, err)
		second, err := deps.service.GetStatuses(ctx)
		assert.NoError(t, err)

		assert.Equal(t, 1, first.ActiveCount)
		assert.Equal(t, 0, second.ActiveCount)
	})

	t.Run("concurrent reads are answered", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(gomock.Any()).Return([]timecard.ClockEvent{{CastName: "Aya", Kind: timecard.KindClockIn}}, nil).MinTimes(1).MaxTimes(8)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := deps.service.GetStatuses(ctx)
				assert.NoError(t, err)
				assert.Equal(t, []string{"Aya"}, resp.Active)
			}()
		}
		wg.Wait()
	})

	t.Run("store error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("down"))

		_, err := deps.service.GetStatuses(ctx)

		assert.ErrorIs(t, err, timecarderrors.ErrLogUnavailable)
	})
}

func TestTimecardService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the last seven venue days", func(t *testing.T) {
		deps := setupServiceTest(t)
		wantFrom := time.Date(2024, 4, 25, 0, 0, 0, 0, jst)
		wantTo := time.Date(2024, 5, 2, 0, 0, 0, 0, jst)
		deps.repo.EXPECT().FindByRange(ctx, wantFrom, wantTo).Return([]timecard.ClockEvent{
			{RecordedAt: time.Date(2024, 4, 30, 11, 0, 0, 0, time.UTC), CastName: "Aya", Kind: timecard.KindClockIn, TimeOfDay: "20:00"},
			{RecordedAt: time.Date(2024, 4, 30, 14, 0, 0, 0, time.UTC), CastName: "Aya", Kind: timecard.KindClockOut, TimeOfDay: "23:00"},
			{RecordedAt: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), CastName: "Mio", Kind: timecard.KindClockIn, TimeOfDay: "20:00", WithGuest: true},
		}, nil)

		days, err := deps.service.GetHistory(ctx, timecard.HistoryFilter{})

		assert.NoError(t, err)
		assert.Len(t, days, 2)
		assert.Equal(t, "2024-05-01", days[0].Date)
		assert.Equal(t, "Mio", days[0].Shifts[0].CastName)
		assert.Nil(t, days[0].Shifts[0].OutTime)
		assert.False(t, days[0].Shifts[0].Complete)
		assert.True(t, days[0].Shifts[0].WithGuest)
		assert.Equal(t, "2024-04-30", days[1].Date)
		assert.Equal(t, "23:00", *days[1].Shifts[0].OutTime)
		assert.True(t, days[1].Shifts[0].Complete)
	})

	t.Run("explicit range is inclusive", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByRange(ctx,
			time.Date(2024, 4, 1, 0, 0, 0, 0, jst),
			time.Date(2024, 4, 3, 0, 0, 0, 0, jst),
		).Return(nil, nil)

		days, err := deps.service.GetHistory(ctx, timecard.HistoryFilter{StartDate: "2024-04-01", EndDate: "2024-04-02"})

		assert.NoError(t, err)
		assert.Empty(t, days)
	})

	t.Run("invalid range", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetHistory(ctx, timecard.HistoryFilter{StartDate: "2024-04-05", EndDate: "2024-04-01"})
		assert.ErrorIs(t, err, timecarderrors.ErrInvalidDateRange)

		_, err = deps.service.GetHistory(ctx, timecard.HistoryFilter{StartDate: "04/01/2024"})
		assert.ErrorIs(t, err, timecarderrors.ErrInvalidDateRange)
	})
}

func TestTimecardService_ExportHistory(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	deps.repo.EXPECT().FindByRange(ctx, gomock.Any(), gomock.Any()).Return([]timecard.ClockEvent{
		{RecordedAt: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), CastName: "Aya", Kind: timecard.KindClockIn, TimeOfDay: "20:00"},
	}, nil)

	export, err := deps.service.ExportHistory(ctx, timecard.HistoryFilter{})
	assert.NoError(t, err)
	assert.Equal(t, "2024-04-25", export.StartDate)
	assert.Equal(t, "2024-05-01", export.EndDate)

	f, err := excelize.OpenReader(export.Workbook)
	assert.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet.HistorySheet)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Aya", rows[1][1])
}

func TestTimecardService_ImportLegacy(t *testing.T) {
	ctx := context.Background()

	t.Run("imports label-only rows and skips blank names", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().AppendBatch(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, rows []timecard.ClockEvent) error {
			assert.Len(t, rows, 2)
			assert.Equal(t, timecard.Kind(""), rows[0].Kind)
			assert.Equal(t, "出勤", rows[0].Label)
			assert.Equal(t, timecard.SourceSheetImport, rows[0].Source)
			return nil
		})

		at := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
		res, err := deps.service.ImportLegacy(ctx, []sheet.TimeCardRow{
			{RecordedAt: at, CastName: "Aya", Label: "出勤", TimeOfDay: "20:00"},
			{RecordedAt: at, CastName: " ", Label: "出勤"},
			{RecordedAt: at.Add(time.Hour), CastName: "Aya", Label: "退勤", TimeOfDay: "21:00"},
		})

		assert.NoError(t, err)
		assert.Equal(t, timecard.ImportResult{Imported: 2, Skipped: 1}, res)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("date-only rows keep sheet order and a sortable time", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		var stored []timecard.ClockEvent
		deps.repo.EXPECT().AppendBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rows []timecard.ClockEvent) error {
			stored = rows
			return nil
		})

		core, logs := observer.New(zap.InfoLevel)
		reqCtx := contextutil.WithLogger(ctx, zap.New(core).With(zap.String("request_id", "req-9")))

		day := time.Date(2025, 1, 20, 0, 0, 0, 0, jst)
		_, err := deps.service.ImportLegacy(reqCtx, []sheet.TimeCardRow{
			{RecordedAt: day, CastName: "Aya", Label: "出勤", TimeOfDay: "9:05"},
			{RecordedAt: day, CastName: "Aya", Label: "退勤", TimeOfDay: "23:30"},
			{RecordedAt: day, CastName: "Mio", Label: "出勤", TimeOfDay: "late"},
		})

		assert.NoError(t, err)
		if assert.Len(t, stored, 3) {
			assert.Equal(t, "09:05", stored[0].TimeOfDay)
			assert.Equal(t, "23:30", stored[1].TimeOfDay)
			assert.Equal(t, "", stored[2].TimeOfDay)
			assert.True(t, stored[0].CreatedAt.Before(stored[1].CreatedAt))
			assert.True(t, stored[1].CreatedAt.Before(stored[2].CreatedAt))
		}

		entries := logs.FilterMessage("legacy time card imported").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
		}
	})

	t.Run("nothing to import", func(t *testing.T) {
		deps := setupServiceTest(t)

		res, err := deps.service.ImportLegacy(ctx, nil)

		assert.NoError(t, err)
		assert.Zero(t, res.Imported)
	})
}
