package gateway

import "time"

// Event is the websocket payload sent to clients when rows change. Type
// is "<table>.<op>", e.g. "participants.UPDATE". It carries no row data:
// clients re-fetch the affected list.
type Event struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Type      string    `json:"type"`
	Table     string    `json:"table"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}
