package timecard

import (
	"bytes"
	"time"
)

type ClockRequest struct {
	CastName  string `json:"cast_name" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	WithGuest bool   `json:"with_guest"`
	TimeOfDay string `json:"time_of_day"`
}

type ClockEventResponse struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	CastName   string    `json:"cast_name"`
	Kind       Kind      `json:"kind"`
	Label      string    `json:"label"`
	WithGuest  bool      `json:"with_guest"`
	TimeOfDay  string    `json:"time_of_day"`
	Source     string    `json:"source"`
}

type StatusResponse struct {
	Statuses    map[string]Kind `json:"statuses"`
	Active      []string        `json:"active"`
	ActiveCount int             `json:"active_count"`
}

type HistoryFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type ShiftResponse struct {
	CastName  string  `json:"cast_name"`
	InTime    *string `json:"in_time"`
	OutTime   *string `json:"out_time"`
	WithGuest bool    `json:"with_guest"`
	Complete  bool    `json:"complete"`
}

type DayHistoryResponse struct {
	Date   string          `json:"date"`
	Shifts []ShiftResponse `json:"shifts"`
}

// ImportResult reports a legacy sheet import.
// HistoryExport is a rendered history workbook and the dates it covers.
type HistoryExport struct {
	StartDate string
	EndDate   string
	Workbook  *bytes.Buffer
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func mapToResponse(e ClockEvent) ClockEventResponse {
	return ClockEventResponse{
		ID:         e.ID.String(),
		RecordedAt: e.RecordedAt,
		CastName:   e.CastName,
		Kind:       ResolveKind(e),
		Label:      e.Label,
		WithGuest:  e.WithGuest,
		TimeOfDay:  e.TimeOfDay,
		Source:     e.Source,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapDays(days []DayShifts) []DayHistoryResponse {
	res := make([]DayHistoryResponse, len(days))
	for i, d := range days {
		shifts := make([]ShiftResponse, len(d.Shifts))
		for j, s := range d.Shifts {
			shifts[j] = ShiftResponse{
				CastName:  s.CastName,
				InTime:    optional(s.InTime),
				OutTime:   optional(s.OutTime),
				WithGuest: s.WithGuest,
				Complete:  s.Complete(),
			}
		}
		res[i] = DayHistoryResponse{Date: d.Date, Shifts: shifts}
	}
	return res
}
