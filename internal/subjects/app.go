package subjects

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// SubjectsRepository defines what the app layer needs from the repository
type SubjectsRepository interface {
	CreateSubject(ctx context.Context, meetingID uuid.UUID, title string) (*models.Subject, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error)
	ToggleDiscussed(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error
}

// App handles subject business logic
type App struct {
	repo SubjectsRepository
}

// NewApp creates a new subjects App
func NewApp(repo SubjectsRepository) *App {
	return &App{repo: repo}
}

// CreateSubject adds a discussion subject with validation.
func (a *App) CreateSubject(ctx context.Context, meetingID uuid.UUID, title string) (*models.Subject, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("validation failed: subject title is required")
	}

	s, err := a.repo.CreateSubject(ctx, meetingID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	log.Info().Str("subject_id", s.ID.String()).Str("meeting_id", meetingID.String()).Msg("created subject")
	return s, nil
}

// ListByMeeting returns a meeting's subjects in insertion order.
func (a *App) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error) {
	return a.repo.ListByMeeting(ctx, meetingID)
}

// ToggleDiscussed flips the discussed flag on a subject.
func (a *App) ToggleDiscussed(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	return a.repo.ToggleDiscussed(ctx, id)
}

// DeleteSubject removes a subject.
func (a *App) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	return a.repo.DeleteSubject(ctx, id)
}
