package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	ocrerrors "blair-ops/internal/ocr/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	reply string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte, mimeType string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeRoster struct {
	names []string
	err   error
}

func (f fakeRoster) Names(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

var jst = time.FixedZone("JST", 9*60*60)

func newTestService(ex Extractor, roster Roster) *service {
	return &service{
		extractor: ex,
		roster:    roster,
		loc:       jst,
		now:       func() time.Time { return time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC) },
		logger:    zap.NewNop(),
	}
}

func TestReadSlip(t *testing.T) {
	ctx := context.Background()
	img := []byte{0xff, 0xd8, 0xff}

	t.Run("parses a fenced reply and matches the roster", func(t *testing.T) {
		ex := &fakeExtractor{reply: "```json\n{\"date\":\"2026-01-20\",\"names\":[\"まま\",\"ＲＥＮ\",\"Unknown\",\"Extra\"],\"total\":\"¥15,000\",\"set\":3000,\"mine_ice\":null}\n```"}
		svc := newTestService(ex, fakeRoster{names: []string{"Aya", "まま", "Ren"}})

		draft, err := svc.ReadSlip(ctx, img, "image/jpeg")

		assert.NoError(t, err)
		assert.Equal(t, "2026-01-20", draft.Date)
		assert.Equal(t, int64(15000), draft.Total)
		assert.Equal(t, "3000", draft.SetInfo)
		assert.Equal(t, "", draft.MineIce)
		assert.Len(t, draft.Names, 3)
		assert.Equal(t, NameMatch{Read: "まま", Cast: "まま"}, draft.Names[0])
		assert.Equal(t, "Ren", draft.Names[1].Cast)
		assert.Equal(t, "", draft.Names[2].Cast)
	})

	t.Run("missing date falls back to venue today", func(t *testing.T) {
		ex := &fakeExtractor{reply: `{"names":"Aya","total":1000}`}
		svc := newTestService(ex, nil)

		draft, err := svc.ReadSlip(ctx, img, "image/png")

		assert.NoError(t, err)
		assert.Equal(t, "2024-05-02", draft.Date)
		assert.Equal(t, []NameMatch{{Read: "Aya"}}, draft.Names)
	})

	t.Run("roster failure still returns a draft", func(t *testing.T) {
		ex := &fakeExtractor{reply: `{"date":"2024-05-01","names":["Aya"],"total":1}`}
		svc := newTestService(ex, fakeRoster{err: errors.New("redis down")})

		draft, err := svc.ReadSlip(ctx, img, "image/png")

		assert.NoError(t, err)
		assert.Equal(t, "", draft.Names[0].Cast)
	})

	t.Run("reply without json", func(t *testing.T) {
		svc := newTestService(&fakeExtractor{reply: "I cannot read this slip."}, nil)

		_, err := svc.ReadSlip(ctx, img, "image/jpeg")

		assert.ErrorIs(t, err, ocrerrors.ErrUnparseable)
	})

	t.Run("rate limit passes through", func(t *testing.T) {
		svc := newTestService(&fakeExtractor{err: ocrerrors.ErrRateLimited}, nil)

		_, err := svc.ReadSlip(ctx, img, "image/jpeg")

		assert.ErrorIs(t, err, ocrerrors.ErrRateLimited)
	})

	t.Run("non-image is rejected before calling the model", func(t *testing.T) {
		ex := &fakeExtractor{}
		svc := newTestService(ex, nil)

		_, err := svc.ReadSlip(ctx, []byte("%PDF"), "application/pdf")

		assert.ErrorIs(t, err, ocrerrors.ErrNotAnImage)
		assert.Zero(t, ex.calls)
	})

	t.Run("disabled", func(t *testing.T) {
		svc := NewService(nil, nil, jst)

		_, err := svc.ReadSlip(ctx, img, "image/jpeg")

		assert.ErrorIs(t, err, ocrerrors.ErrDisabled)
	})
}

func TestMatchRoster(t *testing.T) {
	roster := []string{"Aya", "Mio", "ママ"}

	assert.Equal(t, "Aya", matchRoster("aya", roster))
	assert.Equal(t, "Aya", matchRoster("ＡＹＡ", roster))
	assert.Equal(t, "Mio", matchRoster("Mio-chan", roster))
	assert.Equal(t, "ママ", matchRoster("ﾏﾏ", roster))
	assert.Equal(t, "", matchRoster("Ren", roster))
	assert.Equal(t, "", matchRoster("  ", roster))
}

func TestClassifyError(t *testing.T) {
	assert.ErrorIs(t, classifyError(errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED")), ocrerrors.ErrRateLimited)
	assert.ErrorIs(t, classifyError(errors.New("Error 500, Message: boom")), ocrerrors.ErrUpstream)
}
