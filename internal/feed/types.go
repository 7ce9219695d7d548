package feed

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Table names that carry change notifications.
const (
	TableParticipants     = "participants"
	TableSpeakingSessions = "speaking_sessions"
	TableSubjects         = "subjects"
	TableQuestions        = "questions"
)

// NotifyChannel is the Postgres NOTIFY channel the schema triggers fire
// with a change_events id as payload.
const NotifyChannel = "floortime_changes"

// ChangeEvent is one row-level change recorded by the database triggers.
// It carries no row payload: subscribers re-fetch the affected entity
// list for the meeting.
type ChangeEvent struct {
	ID        uuid.UUID  `json:"id"`
	MeetingID uuid.UUID  `json:"meeting_id"`
	Table     string     `json:"table"`
	Op        string     `json:"op"`
	RowID     uuid.UUID  `json:"row_id"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

// Subject returns the NATS subject a change event for the given meeting
// and table is published on.
func Subject(prefix string, meetingID uuid.UUID, table string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, meetingID, table)
}
