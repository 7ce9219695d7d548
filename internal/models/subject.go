package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a per-meeting discussion topic.
type Subject struct {
	ID        uuid.UUID `json:"id"`
	MeetingID uuid.UUID `json:"meeting_id"`
	Title     string    `json:"title"`
	Discussed bool      `json:"discussed"`
	CreatedAt time.Time `json:"created_at"`
}
