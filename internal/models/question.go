package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is an audience question for a meeting. AskerName is nil for
// anonymous questions; DisplayAsker renders those as "Anonymous".
type Question struct {
	ID        uuid.UUID `json:"id"`
	MeetingID uuid.UUID `json:"meeting_id"`
	Text      string    `json:"text"`
	AskerName *string   `json:"asker_name,omitempty"`
	Answered  bool      `json:"answered"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayAsker returns the asker name to show in listings.
func (q Question) DisplayAsker() string {
	if q.AskerName == nil || *q.AskerName == "" {
		return "Anonymous"
	}
	return *q.AskerName
}
