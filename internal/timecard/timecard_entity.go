package timecard

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the action recorded by a clock event.
type Kind string

const (
	KindClockIn  Kind = "clock_in"
	KindClockOut Kind = "clock_out"
)

// Labels written to the spreadsheet and found on legacy rows.
const (
	LabelClockIn  = "出勤"
	LabelClockOut = "退勤"
	GuestMark     = "あり"
	NoGuestMark   = "-"
)

const (
	SourceApp         = "APP"
	SourceSheetImport = "SHEET_IMPORT"
)

// ClockEvent is one row of the append-only time-card log. Legacy rows may
// carry only Label; Kind is then empty.
type ClockEvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordedAt time.Time `gorm:"column:recorded_at;type:timestamptz;not null;index"`
	CastName   string    `gorm:"column:cast_name;type:varchar(100);not null;index"`
	Kind       Kind      `gorm:"column:kind;type:varchar(20)"`
	Label      string    `gorm:"column:label;type:varchar(20)"`
	WithGuest  bool      `gorm:"column:with_guest;not null;default:false"`
	TimeOfDay  string    `gorm:"column:time_of_day;type:varchar(5)"`
	Source     string    `gorm:"column:source;type:varchar(30);not null;default:APP"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ClockEvent) TableName() string {
	return "clock_events"
}

// ParseKind accepts the API values, the short forms and the sheet labels.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindClockIn), "in", LabelClockIn:
		return KindClockIn, true
	case string(KindClockOut), "out", LabelClockOut:
		return KindClockOut, true
	}
	return "", false
}

// KindLabel is the sheet label for k.
func KindLabel(k Kind) string {
	if k == KindClockIn {
		return LabelClockIn
	}
	return LabelClockOut
}
