package ocr

import (
	"context"
	"strings"
	"time"

	ocrerrors "blair-ops/internal/ocr/errors"
	"blair-ops/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Roster lists the cast names OCR results are matched against.
type Roster interface {
	Names(ctx context.Context) ([]string, error)
}

type Service interface {
	ReadSlip(ctx context.Context, image []byte, mimeType string) (SlipDraft, error)
}

type service struct {
	extractor Extractor
	roster    Roster
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewService builds the slip reader. A nil extractor yields a service that
// answers every call with ErrDisabled.
func NewService(extractor Extractor, roster Roster, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		extractor: extractor,
		roster:    roster,
		loc:       loc,
		now:       time.Now,
		logger:    zap.L().Named("ocr.service"),
	}
}

func (s *service) ReadSlip(ctx context.Context, image []byte, mimeType string) (SlipDraft, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.extractor == nil {
		return SlipDraft{}, ocrerrors.ErrDisabled
	}
	if len(image) == 0 {
		return SlipDraft{}, ocrerrors.ErrImageRequired
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return SlipDraft{}, ocrerrors.ErrNotAnImage
	}

	text, err := s.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		log.Warn("slip extraction failed", zap.Error(err))
		return SlipDraft{}, err
	}

	raw, err := parseReply(text)
	if err != nil {
		log.Warn("unparseable ocr reply", zap.Int("reply_len", len(text)), zap.Error(err))
		return SlipDraft{}, ocrerrors.ErrUnparseable.WithCause(err)
	}

	var roster []string
	if s.roster != nil {
		roster, err = s.roster.Names(ctx)
		if err != nil {
			// Names are returned unmatched.
			log.Warn("load roster for ocr failed", zap.Error(err))
		}
	}

	draft := SlipDraft{
		Date:    s.draftDate(raw.Date),
		Total:   amount(raw.Total),
		SetInfo: digits(raw.Set),
		MineIce: digits(raw.MineIce),
	}
	for _, n := range raw.names() {
		draft.Names = append(draft.Names, NameMatch{Read: n, Cast: matchRoster(n, roster)})
	}

	log.Info("slip read",
		zap.String("date", draft.Date),
		zap.Int("names", len(draft.Names)),
		zap.Int64("total", draft.Total),
	)
	return draft, nil
}

// draftDate keeps a valid YYYY-MM-DD and falls back to today at the venue.
func (s *service) draftDate(v string) string {
	v = strings.TrimSpace(v)
	if _, err := time.Parse(time.DateOnly, v); err == nil {
		return v
	}
	return s.now().In(s.loc).Format(time.DateOnly)
}
