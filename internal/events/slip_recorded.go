package events

import "time"

const (
	SlipRecordedTopic     = "blair.slip.recorded.v1"
	SlipRecordedEventType = "slip.recorded"
)

const (
	SlipActionCreated = "created"
	SlipActionUpdated = "updated"
	SlipActionDeleted = "deleted"
)

// SlipRecordedEvent carries the full slip so consumers never read back.
// Only SlipID is meaningful for deletions.
type SlipRecordedEvent struct {
	EventType  string    `json:"event_type"`
	Action     string    `json:"action"`
	RequestID  string    `json:"request_id,omitempty"`
	SlipID     string    `json:"slip_id"`
	SlipDate   string    `json:"slip_date,omitempty"`
	Names      []string  `json:"names,omitempty"`
	Total      int64     `json:"total"`
	SetInfo    string    `json:"set_info,omitempty"`
	MineIce    string    `json:"mine_ice,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
