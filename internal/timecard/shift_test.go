package timecard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestPairShifts_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		events []ClockEvent
		want   []ShiftRecord
	}{
		{
			name: "complete shift",
			events: []ClockEvent{
				ev("A", KindClockIn, "08:00"),
				ev("A", KindClockOut, "17:00"),
			},
			want: []ShiftRecord{{CastName: "A", InTime: "08:00", OutTime: "17:00"}},
		},
		{
			name: "double clock in keeps both",
			events: []ClockEvent{
				ev("A", KindClockIn, "08:00"),
				ev("A", KindClockIn, "12:00"),
			},
			want: []ShiftRecord{
				{CastName: "A", InTime: "08:00"},
				{CastName: "A", InTime: "12:00"},
			},
		},
		{
			name:   "orphan clock out",
			events: []ClockEvent{ev("A", KindClockOut, "09:00")},
			want:   []ShiftRecord{{CastName: "A", OutTime: "09:00"}},
		},
		{
			name: "two casts interleaved",
			events: []ClockEvent{
				ev("A", KindClockIn, "08:00"),
				ev("B", KindClockIn, "08:30"),
				ev("A", KindClockOut, "17:00"),
				ev("B", KindClockOut, "18:00"),
			},
			want: []ShiftRecord{
				{CastName: "A", InTime: "08:00", OutTime: "17:00"},
				{CastName: "B", InTime: "08:30", OutTime: "18:00"},
			},
		},
		{
			name: "out of order rows are sorted per cast",
			events: []ClockEvent{
				ev("A", KindClockOut, "23:00"),
				ev("A", KindClockIn, "19:00"),
			},
			want: []ShiftRecord{{CastName: "A", InTime: "19:00", OutTime: "23:00"}},
		},
		{
			name: "orphan out sorts by its out time",
			events: []ClockEvent{
				ev("B", KindClockIn, "20:00"),
				ev("A", KindClockOut, "19:00"),
			},
			want: []ShiftRecord{
				{CastName: "A", OutTime: "19:00"},
				{CastName: "B", InTime: "20:00"},
			},
		},
		{
			name: "ties keep cast grouping order",
			events: []ClockEvent{
				ev("Rin", KindClockIn, "19:00"),
				ev("Aya", KindClockIn, "19:00"),
			},
			want: []ShiftRecord{
				{CastName: "Rin", InTime: "19:00"},
				{CastName: "Aya", InTime: "19:00"},
			},
		},
		{
			name: "nameless rows dropped",
			events: []ClockEvent{
				ev("", KindClockIn, "19:00"),
				ev("A", KindClockIn, "20:00"),
			},
			want: []ShiftRecord{{CastName: "A", InTime: "20:00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PairShifts(tt.events, jst))
		})
	}
}

func TestPairShifts_GuestFlag(t *testing.T) {
	in := ev("A", KindClockIn, "19:00")
	in.WithGuest = true
	out := ev("A", KindClockOut, "23:00")

	got := PairShifts([]ClockEvent{in, out}, jst)
	assert.True(t, got[0].WithGuest)

	in.WithGuest = false
	out.WithGuest = true
	got = PairShifts([]ClockEvent{in, out}, jst)
	assert.False(t, got[0].WithGuest, "flag comes from the clock-in side")

	orphan := ev("B", KindClockOut, "22:00")
	orphan.WithGuest = true
	got = PairShifts([]ClockEvent{orphan}, jst)
	assert.True(t, got[0].WithGuest)
}

func TestPairShifts_FallsBackToTimestamp(t *testing.T) {
	events := []ClockEvent{
		{CastName: "A", Label: LabelClockIn, RecordedAt: time.Date(2025, 1, 20, 10, 5, 0, 0, time.UTC)},
		{CastName: "A", Kind: KindClockOut, TimeOfDay: "bogus", RecordedAt: time.Date(2025, 1, 20, 14, 0, 0, 0, time.UTC)},
	}

	got := PairShifts(events, jst)

	assert.Equal(t, []ShiftRecord{{CastName: "A", InTime: "19:05", OutTime: "23:00"}}, got)
	assert.True(t, got[0].Complete())
}

func TestPairShifts_AccountsForEveryEvent(t *testing.T) {
	events := []ClockEvent{
		ev("A", KindClockOut, "18:00"),
		ev("A", KindClockIn, "19:00"),
		ev("A", KindClockIn, "20:00"),
		ev("A", KindClockOut, "21:00"),
		ev("A", KindClockOut, "22:00"),
		ev("B", KindClockIn, "19:30"),
		ev("C", KindClockOut, "23:59"),
	}

	ins, orphans := 0, 0
	open := map[string]bool{}
	sorted := PairShifts(events, jst)
	for _, name := range []string{"A", "B", "C"} {
		for _, e := range eventsFor(events, name) {
			if e.Kind == KindClockIn {
				ins++
				open[name] = true
				continue
			}
			if !open[name] {
				orphans++
			}
			open[name] = false
		}
	}

	assert.Len(t, sorted, ins+orphans)
	assert.Equal(t, sorted, PairShifts(events, jst), "pairing is idempotent")
}

func eventsFor(events []ClockEvent, name string) []ClockEvent {
	var out []ClockEvent
	for _, e := range events {
		if e.CastName == name {
			out = append(out, e)
		}
	}
	return out
}

func TestGroupByDay(t *testing.T) {
	events := []ClockEvent{
		{CastName: "A", Kind: KindClockIn, TimeOfDay: "19:00", RecordedAt: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)},
		{CastName: "A", Kind: KindClockOut, TimeOfDay: "23:30", RecordedAt: time.Date(2025, 1, 20, 14, 30, 0, 0, time.UTC)},
		{CastName: "B", Kind: KindClockIn, TimeOfDay: "20:00", RecordedAt: time.Date(2025, 1, 21, 11, 0, 0, 0, time.UTC)},
		{CastName: "C", Label: LabelClockOut, TimeOfDay: "01:00"},
	}

	days := GroupByDay(events, jst)

	assert.Len(t, days, 3)
	assert.Equal(t, "2025-01-21", days[0].Date)
	assert.Equal(t, []ShiftRecord{{CastName: "B", InTime: "20:00"}}, days[0].Shifts)
	assert.Equal(t, "2025-01-20", days[1].Date)
	assert.Equal(t, []ShiftRecord{{CastName: "A", InTime: "19:00", OutTime: "23:30"}}, days[1].Shifts)
	assert.Equal(t, "", days[2].Date)
	assert.Equal(t, []ShiftRecord{{CastName: "C", OutTime: "01:00"}}, days[2].Shifts)
}

func TestGroupByDay_UsesVenueCalendar(t *testing.T) {
	// 16:00 UTC is already the next day in Tokyo
	events := []ClockEvent{
		{CastName: "A", Kind: KindClockIn, TimeOfDay: "01:00", RecordedAt: time.Date(2025, 1, 20, 16, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, "2025-01-21", GroupByDay(events, jst)[0].Date)
	assert.Equal(t, "2025-01-20", GroupByDay(events, time.UTC)[0].Date)
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "08:05", NormalizeClock("8:05"))
	assert.Equal(t, "08:05", NormalizeClock(" 08:05 "))
	assert.Equal(t, "23:59", NormalizeClock("23:59:30"))
	assert.Equal(t, "", NormalizeClock("25:00"))
	assert.Equal(t, "", NormalizeClock("noon"))
	assert.Equal(t, "", NormalizeClock(""))
}
