package events

import "time"

const (
	TimecardRecordedTopic     = "blair.timecard.recorded.v1"
	TimecardRecordedEventType = "timecard.recorded"
)

type TimecardRecordedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EventID    string    `json:"event_id"`
	CastName   string    `json:"cast_name"`
	Kind       string    `json:"kind"`
	Label      string    `json:"label"`
	WithGuest  bool      `json:"with_guest"`
	TimeOfDay  string    `json:"time_of_day"`
	RecordedAt time.Time `json:"recorded_at"`
}
