package meetings

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

// ErrNotFound is returned when a meeting does not exist.
var ErrNotFound = errors.New("meeting not found")

// Repository implements meeting data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new meetings repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateMeeting inserts a new active meeting owned by ownerID.
func (r *Repository) CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error) {
	m := &models.Meeting{Title: title, IsActive: true, OwnerID: ownerID}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO meetings (title, is_active, owner_id)
		VALUES ($1, TRUE, $2)
		RETURNING id, created_at
	`, title, ownerID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return m, nil
}

// GetMeeting retrieves a meeting by ID
func (r *Repository) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	var m models.Meeting
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, is_active, owner_id, created_at, ended_at
		FROM meetings
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Title, &m.IsActive, &m.OwnerID, &m.CreatedAt, &m.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &m, nil
}

// GetActiveMeeting returns the currently active meeting, or ErrNotFound.
// Used once at startup to seed the app-level active reference.
func (r *Repository) GetActiveMeeting(ctx context.Context) (*models.Meeting, error) {
	var m models.Meeting
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, is_active, owner_id, created_at, ended_at
		FROM meetings
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&m.ID, &m.Title, &m.IsActive, &m.OwnerID, &m.CreatedAt, &m.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active meeting: %w", err)
	}
	return &m, nil
}

// ListMeetings returns all meetings, newest first.
func (r *Repository) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, is_active, owner_id, created_at, ended_at
		FROM meetings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.IsActive, &m.OwnerID, &m.CreatedAt, &m.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// DeactivateMeeting clears the is_active flag without stamping ended_at.
// Used when a new meeting supersedes the current one.
func (r *Repository) DeactivateMeeting(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE meetings SET is_active = FALSE WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate meeting: %w", err)
	}
	return nil
}

// EndMeeting clears the is_active flag and stamps ended_at.
func (r *Repository) EndMeeting(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.Meeting, error) {
	var m models.Meeting
	err := r.pool.QueryRow(ctx, `
		UPDATE meetings
		SET is_active = FALSE, ended_at = $2
		WHERE id = $1
		RETURNING id, title, is_active, owner_id, created_at, ended_at
	`, id, endedAt).Scan(&m.ID, &m.Title, &m.IsActive, &m.OwnerID, &m.CreatedAt, &m.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to end meeting: %w", err)
	}
	return &m, nil
}

// DeleteMeeting deletes a meeting by ID. Participants, sessions, subjects
// and questions cascade at the database level.
func (r *Repository) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}
