package participants

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/floortime/internal/models"
)

// ErrNotFound is returned when a participant does not exist.
var ErrNotFound = errors.New("participant not found")

// Repository implements participant data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new participants repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateParticipant adds a named participant to a meeting.
func (r *Repository) CreateParticipant(ctx context.Context, meetingID uuid.UUID, name string) (*models.Participant, error) {
	p := &models.Participant{MeetingID: meetingID, Name: name}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO participants (meeting_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, meetingID, name).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return p, nil
}

// GetParticipant retrieves a participant by ID
func (r *Repository) GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	var p models.Participant
	err := r.pool.QueryRow(ctx, `
		SELECT id, meeting_id, name, total_speaking_time, speaking_sessions, is_currently_speaking, created_at
		FROM participants
		WHERE id = $1
	`, id).Scan(&p.ID, &p.MeetingID, &p.Name, &p.TotalSpeakingTime, &p.SpeakingSessions, &p.IsCurrentlySpeaking, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// ListByMeeting returns a meeting's participants ordered by accumulated
// speaking time, most first. Ties keep insertion order.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, meeting_id, name, total_speaking_time, speaking_sessions, is_currently_speaking, created_at
		FROM participants
		WHERE meeting_id = $1
		ORDER BY total_speaking_time DESC, created_at ASC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.Name, &p.TotalSpeakingTime, &p.SpeakingSessions, &p.IsCurrentlySpeaking, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ClearSpeakingFlags clears is_currently_speaking for every participant
// in the meeting. This is the unconditional broadcast clear that opens
// every speaking transition.
func (r *Repository) ClearSpeakingFlags(ctx context.Context, meetingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE participants SET is_currently_speaking = FALSE WHERE meeting_id = $1
	`, meetingID)
	if err != nil {
		return fmt.Errorf("failed to clear speaking flags: %w", err)
	}
	return nil
}

// SetSpeaking marks a single participant as the active speaker.
func (r *Repository) SetSpeaking(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participants SET is_currently_speaking = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to set speaking flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreditStop settles a completed session into the aggregate: clears the
// speaking flag, adds the session's seconds to the running total, and
// bumps the completed-session count.
func (r *Repository) CreditStop(ctx context.Context, id uuid.UUID, seconds int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participants
		SET is_currently_speaking = FALSE,
			total_speaking_time = total_speaking_time + $2,
			speaking_sessions = speaking_sessions + 1
		WHERE id = $1
	`, id, seconds)
	if err != nil {
		return fmt.Errorf("failed to credit participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteParticipant deletes a participant by ID. Their sessions cascade.
func (r *Repository) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}
