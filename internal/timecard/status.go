package timecard

import (
	"sort"
	"strings"
)

// Status maps a cast name to the kind of their latest clock event.
type Status map[string]Kind

// ResolveKind returns the event's kind, falling back to the legacy label.
// A row carrying neither resolves to KindClockOut so a stale row never keeps
// someone marked as working.
func ResolveKind(e ClockEvent) Kind {
	if k, ok := ParseKind(string(e.Kind)); ok {
		return k
	}
	if k, ok := ParseKind(e.Label); ok {
		return k
	}
	return KindClockOut
}

// ApplyEvent is one step of the status fold. Rows without a name are ignored.
func ApplyEvent(status Status, e ClockEvent) Status {
	name := strings.TrimSpace(e.CastName)
	if name == "" {
		return status
	}
	status[name] = ResolveKind(e)
	return status
}

// ReduceStatus folds the log, oldest first, into each cast's current state.
// Last write wins: a second clock-in simply keeps the cast clocked in.
func ReduceStatus(events []ClockEvent) Status {
	status := make(Status)
	for _, e := range events {
		status = ApplyEvent(status, e)
	}
	return status
}

// Active lists the casts currently clocked in, sorted by name.
func (s Status) Active() []string {
	names := make([]string, 0, len(s))
	for name, k := range s {
		if k == KindClockIn {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
