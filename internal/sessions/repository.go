package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/floortime/internal/models"
)

// ErrNotFound is returned when a speaking session does not exist.
var ErrNotFound = errors.New("speaking session not found")

// Repository implements the append-only speaking-session ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new sessions repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Open inserts a new open session for the participant.
func (r *Repository) Open(ctx context.Context, meetingID, participantID uuid.UUID, startedAt time.Time) (*models.SpeakingSession, error) {
	s := &models.SpeakingSession{ParticipantID: participantID, MeetingID: meetingID, StartedAt: startedAt}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO speaking_sessions (participant_id, meeting_id, started_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, participantID, meetingID, startedAt).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open speaking session: %w", err)
	}
	return s, nil
}

// Close stamps ended_at and the controller-observed duration on a session.
func (r *Repository) Close(ctx context.Context, id uuid.UUID, endedAt time.Time, duration int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE speaking_sessions
		SET ended_at = $2, duration = $3
		WHERE id = $1 AND ended_at IS NULL
	`, id, endedAt, duration)
	if err != nil {
		return fmt.Errorf("failed to close speaking session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseOpenInMeeting stamps ended_at on every open session in the meeting
// without computing a duration. This is the stale-session cleanup that
// opens every speaking transition; the interval stays uncredited.
func (r *Repository) CloseOpenInMeeting(ctx context.Context, meetingID uuid.UUID, endedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE speaking_sessions
		SET ended_at = $2
		WHERE meeting_id = $1 AND ended_at IS NULL
	`, meetingID, endedAt)
	if err != nil {
		return fmt.Errorf("failed to close open sessions: %w", err)
	}
	return nil
}

// CloseOpenWithDuration closes every open session in the meeting, setting
// duration from the server-side interval. Used when a meeting ends so the
// final interval is settled rather than dropped.
func (r *Repository) CloseOpenWithDuration(ctx context.Context, meetingID uuid.UUID, endedAt time.Time) ([]models.SpeakingSession, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE speaking_sessions
		SET ended_at = $2,
			duration = GREATEST(0, EXTRACT(EPOCH FROM ($2 - started_at))::INT)
		WHERE meeting_id = $1 AND ended_at IS NULL
		RETURNING id, participant_id, meeting_id, started_at, ended_at, duration
	`, meetingID, endedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to settle open sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByMeeting returns the meeting's ledger, newest first.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.SpeakingSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_id, meeting_id, started_at, ended_at, duration
		FROM speaking_sessions
		WHERE meeting_id = $1
		ORDER BY started_at DESC
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speaking sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByParticipant returns a participant's ledger, newest first.
func (r *Repository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]models.SpeakingSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_id, meeting_id, started_at, ended_at, duration
		FROM speaking_sessions
		WHERE participant_id = $1
		ORDER BY started_at DESC
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speaking sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func scanSessions(rows pgx.Rows) ([]models.SpeakingSession, error) {
	var sessions []models.SpeakingSession
	for rows.Next() {
		var s models.SpeakingSession
		if err := rows.Scan(&s.ID, &s.ParticipantID, &s.MeetingID, &s.StartedAt, &s.EndedAt, &s.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan speaking session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
