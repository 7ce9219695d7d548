package models

import (
	"time"

	"github.com/google/uuid"
)

// SpeakingSession is one contiguous interval during which a participant
// held the floor. EndedAt and Duration are nil while the session is open.
// Duration is whole seconds as observed by the controller, not a
// stored-generated column. MeetingID is denormalized from the participant.
type SpeakingSession struct {
	ID            uuid.UUID  `json:"id"`
	ParticipantID uuid.UUID  `json:"participant_id"`
	MeetingID     uuid.UUID  `json:"meeting_id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	Duration      *int       `json:"duration,omitempty"`
}
