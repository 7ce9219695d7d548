package subjects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/floortime/internal/models"
)

// ErrNotFound is returned when a subject does not exist.
var ErrNotFound = errors.New("subject not found")

// Repository implements subject data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new subjects repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateSubject adds a discussion subject to a meeting.
func (r *Repository) CreateSubject(ctx context.Context, meetingID uuid.UUID, title string) (*models.Subject, error) {
	s := &models.Subject{MeetingID: meetingID, Title: title}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subjects (meeting_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, meetingID, title).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return s, nil
}

// ListByMeeting returns a meeting's subjects in insertion order.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, meeting_id, title, discussed, created_at
		FROM subjects
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.MeetingID, &s.Title, &s.Discussed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// ToggleDiscussed flips the discussed flag and returns the new row.
func (r *Repository) ToggleDiscussed(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	var s models.Subject
	err := r.pool.QueryRow(ctx, `
		UPDATE subjects
		SET discussed = NOT discussed
		WHERE id = $1
		RETURNING id, meeting_id, title, discussed, created_at
	`, id).Scan(&s.ID, &s.MeetingID, &s.Title, &s.Discussed, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle subject: %w", err)
	}
	return &s, nil
}

// DeleteSubject deletes a subject by ID.
func (r *Repository) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	return nil
}
