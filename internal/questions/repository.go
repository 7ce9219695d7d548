package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/floortime/internal/models"
)

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("question not found")

// Repository implements question data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new questions repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateQuestion stores a question. askerName may be nil for anonymous
// questions; the row keeps no trace of who asked.
func (r *Repository) CreateQuestion(ctx context.Context, meetingID uuid.UUID, text string, askerName *string) (*models.Question, error) {
	q := &models.Question{MeetingID: meetingID, Text: text, AskerName: askerName}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO questions (meeting_id, text, asker_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, meetingID, text, askerName).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// ListByMeeting returns a meeting's questions in insertion order.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, meeting_id, text, asker_name, answered, created_at
		FROM questions
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.MeetingID, &q.Text, &q.AskerName, &q.Answered, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ToggleAnswered flips the answered flag and returns the new row.
func (r *Repository) ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var q models.Question
	err := r.pool.QueryRow(ctx, `
		UPDATE questions
		SET answered = NOT answered
		WHERE id = $1
		RETURNING id, meeting_id, text, asker_name, answered, created_at
	`, id).Scan(&q.ID, &q.MeetingID, &q.Text, &q.AskerName, &q.Answered, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle question: %w", err)
	}
	return &q, nil
}

// DeleteQuestion deletes a question by ID.
func (r *Repository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}
