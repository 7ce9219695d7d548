package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a named attendee whose cumulative speaking time is
// tracked. TotalSpeakingTime and SpeakingSessions are running totals
// updated directly on session close, not recomputed from the ledger.
// At most one participant per meeting has IsCurrentlySpeaking set while
// the store is consistent.
type Participant struct {
	ID                  uuid.UUID `json:"id"`
	MeetingID           uuid.UUID `json:"meeting_id"`
	Name                string    `json:"name"`
	TotalSpeakingTime   int       `json:"total_speaking_time"`
	SpeakingSessions    int       `json:"speaking_sessions"`
	IsCurrentlySpeaking bool      `json:"is_currently_speaking"`
	CreatedAt           time.Time `json:"created_at"`
}
