package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a bounded recording session containing participants,
// subjects, and questions. At most one meeting is active system-wide.
type Meeting struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	IsActive  bool       `json:"is_active"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
