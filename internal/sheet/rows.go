// Package sheet reads and writes the venue's spreadsheet layout.
//
// The workbook has a TimeCard sheet (日時 | 名前 | 種別 | 同伴 | 打刻時間 | ID)
// and a Slips sheet keyed by slip id. The trailing TimeCard ID column is
// blank on rows written before it existed.
package sheet

import (
	"strings"
	"time"
)

// Column indexes used to find rows by id.
const (
	timeCardIDColumn = 5
	slipIDColumn     = 0
)

const (
	TimeCardSheet = "TimeCard"
	SlipsSheet    = "Slips"
	HistorySheet  = "History"

	// TimestampLayout is how the 日時 column is written.
	TimestampLayout = "2006/01/02 15:04:05"

	guestMark   = "あり"
	noGuestMark = "-"
)

var (
	timeCardHeader = []any{"日時", "名前", "種別", "同伴", "打刻時間", "ID"}
	slipsHeader    = []any{"ID", "日付", "名前1", "名前2", "名前3", "合計", "セット", "マイアイス"}
	historyHeader  = []any{"日付", "名前", "出勤", "退勤", "同伴"}
)

// TimeCardRow is one line of the TimeCard sheet. Label holds the 種別 cell
// as written, it is never converted to an explicit kind here.
type TimeCardRow struct {
	RecordedAt time.Time
	CastName   string
	Label      string
	WithGuest  bool
	TimeOfDay  string
	// EventID makes mirroring the same event twice a no-op.
	EventID string
}

func (r TimeCardRow) values(loc *time.Location) []any {
	guest := noGuestMark
	if r.WithGuest {
		guest = guestMark
	}
	return []any{r.RecordedAt.In(loc).Format(TimestampLayout), r.CastName, r.Label, guest, r.TimeOfDay, r.EventID}
}

// SlipRow is one line of the Slips sheet.
type SlipRow struct {
	ID      string
	Date    string
	Names   [3]string
	Total   int64
	SetInfo string
	MineIce string
}

func (r SlipRow) values() []any {
	return []any{r.ID, r.Date, r.Names[0], r.Names[1], r.Names[2], r.Total, r.SetInfo, r.MineIce}
}

// HistoryDay is one date block of an exported shift history.
type HistoryDay struct {
	Date   string
	Shifts []HistoryShift
}

type HistoryShift struct {
	CastName  string
	InTime    string
	OutTime   string
	WithGuest bool
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
