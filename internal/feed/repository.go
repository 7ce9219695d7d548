package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a change event does not exist.
var ErrNotFound = errors.New("change event not found")

// Repository reads and settles the change_events outbox.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new feed repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchByID returns a single change event.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*ChangeEvent, error) {
	var e ChangeEvent
	err := r.pool.QueryRow(ctx, `
		SELECT id, meeting_id, table_name, op, row_id, created_at, sent_at
		FROM change_events
		WHERE id = $1
	`, id).Scan(&e.ID, &e.MeetingID, &e.Table, &e.Op, &e.RowID, &e.CreatedAt, &e.SentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch change event: %w", err)
	}
	return &e, nil
}

// FetchUnsent returns up to limit unpublished change events, oldest first.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]ChangeEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, meeting_id, table_name, op, row_id, created_at, sent_at
		FROM change_events
		WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent change events: %w", err)
	}
	defer rows.Close()

	var events []ChangeEvent
	for rows.Next() {
		var e ChangeEvent
		if err := rows.Scan(&e.ID, &e.MeetingID, &e.Table, &e.Op, &e.RowID, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan change event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkSent stamps sent_at on a published change event.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `
		UPDATE change_events SET sent_at = NOW() WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("failed to mark change event sent: %w", err)
	}
	return nil
}
