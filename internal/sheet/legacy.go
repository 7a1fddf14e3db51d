package sheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// LegacyResult is what ReadLegacyTimeCard recovered from a workbook.
type LegacyResult struct {
	Rows    []TimeCardRow
	Skipped int
}

var timestampLayouts = []string{
	TimestampLayout,
	"2006/1/2 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006/1/2",
	time.DateOnly,
}

// ReadLegacyTimeCard parses the TimeCard sheet of an exported workbook.
// Timestamps may be date-only, in which case 打刻時間 orders the day.
// Rows whose timestamp cannot be read are counted in Skipped. Names and
// labels are passed through as written; blank cells stay blank.
func ReadLegacyTimeCard(r io.Reader, loc *time.Location) (LegacyResult, error) {
	if loc == nil {
		loc = time.UTC
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return LegacyResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := TimeCardSheet
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return LegacyResult{}, fmt.Errorf("no worksheet found")
	}

	// Raw values keep date cells as serials whatever their display format.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return LegacyResult{}, err
	}

	var out LegacyResult
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) == 0 {
			continue
		}

		recordedAt, ok := parseTimestamp(cellValue(row, 0), loc)
		if !ok {
			out.Skipped++
			continue
		}

		out.Rows = append(out.Rows, TimeCardRow{
			RecordedAt: recordedAt,
			CastName:   cellValue(row, 1),
			Label:      cellValue(row, 2),
			WithGuest:  cellValue(row, 3) == guestMark,
			TimeOfDay:  clockCell(cellValue(row, 4)),
		})
	}
	return out, nil
}

func isHeader(row []string) bool {
	return cellValue(row, 0) == "日時" || cellValue(row, 1) == "名前"
}

func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	// Date cells come through as Excel serials.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 20000 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		t = t.Round(time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}

	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clockCell turns an Excel time fraction into HH:MM and passes text through.
func clockCell(value string) string {
	value = strings.TrimSpace(value)
	frac, err := strconv.ParseFloat(value, 64)
	if err != nil || frac < 0 || frac >= 1 {
		return value
	}
	minutes := int(math.Round(frac * 24 * 60))
	if minutes >= 24*60 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
