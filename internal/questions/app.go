package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// QuestionsRepository defines what the app layer needs from the repository
type QuestionsRepository interface {
	CreateQuestion(ctx context.Context, meetingID uuid.UUID, text string, askerName *string) (*models.Question, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error)
	ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

// App handles question business logic
type App struct {
	repo QuestionsRepository
}

// NewApp creates a new questions App
func NewApp(repo QuestionsRepository) *App {
	return &App{repo: repo}
}

// CreateQuestion stores a question for a meeting. When isAnonymous is set
// the asker name is discarded before the question is persisted.
func (a *App) CreateQuestion(ctx context.Context, meetingID uuid.UUID, text, askerName string, isAnonymous bool) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("validation failed: question text is required")
	}

	var asker *string
	if !isAnonymous {
		if name := strings.TrimSpace(askerName); name != "" {
			asker = &name
		}
	}

	q, err := a.repo.CreateQuestion(ctx, meetingID, text, asker)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	log.Info().Str("question_id", q.ID.String()).Str("meeting_id", meetingID.String()).Bool("anonymous", asker == nil).Msg("created question")
	return q, nil
}

// ListByMeeting returns a meeting's questions in insertion order.
func (a *App) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error) {
	return a.repo.ListByMeeting(ctx, meetingID)
}

// ToggleAnswered flips the answered flag on a question.
func (a *App) ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return a.repo.ToggleAnswered(ctx, id)
}

// DeleteQuestion removes a question.
func (a *App) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return a.repo.DeleteQuestion(ctx, id)
}
