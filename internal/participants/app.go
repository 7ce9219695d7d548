package participants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// ParticipantsRepository defines what the app layer needs from the repository
type ParticipantsRepository interface {
	CreateParticipant(ctx context.Context, meetingID uuid.UUID, name string) (*models.Participant, error)
	GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

// App handles participant business logic
type App struct {
	repo ParticipantsRepository
}

// NewApp creates a new participants App
func NewApp(repo ParticipantsRepository) *App {
	return &App{repo: repo}
}

// CreateParticipant adds a participant to a meeting with validation.
func (a *App) CreateParticipant(ctx context.Context, meetingID uuid.UUID, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("validation failed: participant name is required")
	}

	p, err := a.repo.CreateParticipant(ctx, meetingID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	log.Info().Str("participant_id", p.ID.String()).Str("meeting_id", meetingID.String()).Str("name", name).Msg("created participant")
	return p, nil
}

// GetParticipant retrieves a participant by ID
func (a *App) GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	return a.repo.GetParticipant(ctx, id)
}

// ListByMeeting returns the meeting leaderboard ordering: total speaking
// time descending, insertion order on ties.
func (a *App) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error) {
	return a.repo.ListByMeeting(ctx, meetingID)
}

// DeleteParticipant removes a participant from a meeting.
func (a *App) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	return a.repo.DeleteParticipant(ctx, id)
}
