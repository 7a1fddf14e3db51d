package timecard

import (
	"sort"
	"strings"
	"time"
)

// ShiftRecord is one work session for display. Either InTime or OutTime may
// be empty when the log has no matching event.
type ShiftRecord struct {
	CastName  string
	InTime    string
	OutTime   string
	WithGuest bool
}

func (r ShiftRecord) Complete() bool {
	return r.InTime != "" && r.OutTime != ""
}

// sortKey is the in-time, or the out-time for an orphan clock-out.
func (r ShiftRecord) sortKey() string {
	if r.InTime != "" {
		return r.InTime
	}
	return r.OutTime
}

// DayShifts holds the shifts of one calendar day in the venue location.
// Date is empty for events without a timestamp.
type DayShifts struct {
	Date   string
	Shifts []ShiftRecord
}

type timedEvent struct {
	kind      Kind
	clock     string
	withGuest bool
}

type shiftState int

const (
	stateIdle shiftState = iota
	stateOpen
)

// shiftMachine pairs one cast's events. At most one shift is open at a time.
type shiftMachine struct {
	castName string
	state    shiftState
	pending  timedEvent
	records  []ShiftRecord
}

func (m *shiftMachine) feed(ev timedEvent) {
	switch {
	case ev.kind == KindClockIn && m.state == stateOpen:
		m.emit(m.pending.clock, "", m.pending.withGuest)
		m.pending = ev
	case ev.kind == KindClockIn:
		m.pending = ev
		m.state = stateOpen
	case m.state == stateOpen:
		// the guest flag belongs to the visit that started at clock-in
		m.emit(m.pending.clock, ev.clock, m.pending.withGuest)
		m.state = stateIdle
	default:
		m.emit("", ev.clock, ev.withGuest)
	}
}

func (m *shiftMachine) flush() []ShiftRecord {
	if m.state == stateOpen {
		m.emit(m.pending.clock, "", m.pending.withGuest)
		m.state = stateIdle
	}
	return m.records
}

func (m *shiftMachine) emit(in, out string, withGuest bool) {
	m.records = append(m.records, ShiftRecord{
		CastName:  m.castName,
		InTime:    in,
		OutTime:   out,
		WithGuest: withGuest,
	})
}

// PairShifts turns one day's events into shift records sorted by time.
// Every named event lands in exactly one record.
func PairShifts(events []ClockEvent, loc *time.Location) []ShiftRecord {
	if loc == nil {
		loc = time.UTC
	}

	var order []string
	byCast := make(map[string][]timedEvent)
	for _, e := range events {
		name := strings.TrimSpace(e.CastName)
		if name == "" {
			continue
		}
		if _, seen := byCast[name]; !seen {
			order = append(order, name)
		}
		byCast[name] = append(byCast[name], timedEvent{
			kind:      ResolveKind(e),
			clock:     clockOf(e, loc),
			withGuest: e.WithGuest,
		})
	}

	var records []ShiftRecord
	for _, name := range order {
		evs := byCast[name]
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].clock < evs[j].clock
		})

		m := &shiftMachine{castName: name}
		for _, ev := range evs {
			m.feed(ev)
		}
		records = append(records, m.flush()...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].sortKey() < records[j].sortKey()
	})
	return records
}

// GroupByDay splits events by the calendar date of RecordedAt in loc and
// pairs each day on its own. Days come newest first; undated rows last.
func GroupByDay(events []ClockEvent, loc *time.Location) []DayShifts {
	if loc == nil {
		loc = time.UTC
	}

	var dates []string
	byDate := make(map[string][]ClockEvent)
	for _, e := range events {
		date := ""
		if !e.RecordedAt.IsZero() {
			date = e.RecordedAt.In(loc).Format(time.DateOnly)
		}
		if _, seen := byDate[date]; !seen {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], e)
	}

	sort.SliceStable(dates, func(i, j int) bool {
		if dates[i] == "" || dates[j] == "" {
			return dates[j] == ""
		}
		return dates[i] > dates[j]
	})

	days := make([]DayShifts, 0, len(dates))
	for _, date := range dates {
		shifts := PairShifts(byDate[date], loc)
		if len(shifts) == 0 {
			continue
		}
		days = append(days, DayShifts{Date: date, Shifts: shifts})
	}
	return days
}

// clockOf is the event's HH:MM, taken from TimeOfDay when it parses and from
// RecordedAt otherwise.
func clockOf(e ClockEvent, loc *time.Location) string {
	if c := NormalizeClock(e.TimeOfDay); c != "" {
		return c
	}
	if e.RecordedAt.IsZero() {
		return ""
	}
	return e.RecordedAt.In(loc).Format("15:04")
}

// NormalizeClock turns "8:05", "08:05" or "08:05:59" into "08:05". Anything
// else yields "".
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}
