package sheet

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// BuildHistoryWorkbook renders shift history into a single-sheet workbook.
// Days are written in the order given.
func BuildHistoryWorkbook(days []HistoryDay) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return nil, err
	}
	if err := setRow(f, HistorySheet, 1, historyHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(HistorySheet, "A1", "E1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(HistorySheet, "A", "E", 14); err != nil {
		return nil, err
	}

	row := 2
	for _, day := range days {
		for _, s := range day.Shifts {
			guest := noGuestMark
			if s.WithGuest {
				guest = guestMark
			}
			if err := setRow(f, HistorySheet, row, []any{day.Date, s.CastName, s.InTime, s.OutTime, guest}); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f.WriteToBuffer()
}
