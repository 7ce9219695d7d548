package meetings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// MeetingsRepository defines what the app layer needs from the repository
type MeetingsRepository interface {
	CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	GetActiveMeeting(ctx context.Context) (*models.Meeting, error)
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
	DeactivateMeeting(ctx context.Context, id uuid.UUID) error
	EndMeeting(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, id uuid.UUID) error
}

// SessionLedger is the slice of the speaking-session ledger the meetings
// app needs to settle open sessions when a meeting ends.
type SessionLedger interface {
	CloseOpenWithDuration(ctx context.Context, meetingID uuid.UUID, endedAt time.Time) ([]models.SpeakingSession, error)
}

// ParticipantAggregates is the slice of the participant store used to
// settle aggregates when a meeting ends.
type ParticipantAggregates interface {
	ClearSpeakingFlags(ctx context.Context, meetingID uuid.UUID) error
	CreditStop(ctx context.Context, participantID uuid.UUID, seconds int) error
}

// LiveState lets the app drop any client-local speaking bookkeeping for a
// meeting that no longer runs.
type LiveState interface {
	Reset(meetingID uuid.UUID)
}

// App handles meeting business logic. It holds the single active-meeting
// reference explicitly rather than scanning for the is_active flag on
// every read; the reference is swapped under a mutex when a new meeting
// is created or the active one ends.
type App struct {
	repo         MeetingsRepository
	ledger       SessionLedger
	participants ParticipantAggregates
	live         LiveState
	clock        clockwork.Clock

	mu     sync.Mutex
	active *models.Meeting
}

// NewApp creates a new meetings App
func NewApp(repo MeetingsRepository, ledger SessionLedger, participants ParticipantAggregates, live LiveState, clock clockwork.Clock) *App {
	return &App{
		repo:         repo,
		ledger:       ledger,
		participants: participants,
		live:         live,
		clock:        clock,
	}
}

// LoadActive seeds the active-meeting reference from the store. Called
// once at startup; the reference is maintained in memory afterwards.
func (a *App) LoadActive(ctx context.Context) error {
	m, err := a.repo.GetActiveMeeting(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load active meeting: %w", err)
	}
	a.mu.Lock()
	a.active = m
	a.mu.Unlock()
	return nil
}

// ActiveMeeting returns the currently active meeting, or nil.
func (a *App) ActiveMeeting() *models.Meeting {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// CreateMeeting creates a new active meeting owned by ownerID. Any
// previously active meeting is deactivated first so that at most one
// meeting is active at a time.
func (a *App) CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("validation failed: meeting title is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil {
		if err := a.repo.DeactivateMeeting(ctx, a.active.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate prior meeting: %w", err)
		}
		if a.live != nil {
			a.live.Reset(a.active.ID)
		}
	}

	m, err := a.repo.CreateMeeting(ctx, strings.TrimSpace(title), ownerID)
	if err != nil {
		return nil, err
	}
	a.active = m

	log.Info().Str("meeting_id", m.ID.String()).Str("title", m.Title).Msg("created meeting")
	return m, nil
}

// GetMeeting retrieves a meeting by ID
func (a *App) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	return a.repo.GetMeeting(ctx, id)
}

// ListMeetings returns all meetings, newest first.
func (a *App) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	return a.repo.ListMeetings(ctx)
}

// EndMeeting ends a meeting. Any still-open speaking session is closed
// with its elapsed server-side seconds credited to the participant
// aggregate; leaving the interval open would lose it for good.
func (a *App) EndMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	now := a.clock.Now()

	closed, err := a.ledger.CloseOpenWithDuration(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to close open sessions: %w", err)
	}
	for _, s := range closed {
		secs := 0
		if s.Duration != nil {
			secs = *s.Duration
		}
		if err := a.participants.CreditStop(ctx, s.ParticipantID, secs); err != nil {
			return nil, fmt.Errorf("failed to credit participant %s: %w", s.ParticipantID, err)
		}
	}
	if err := a.participants.ClearSpeakingFlags(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to clear speaking flags: %w", err)
	}

	m, err := a.repo.EndMeeting(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if a.live != nil {
		a.live.Reset(id)
	}

	a.mu.Lock()
	if a.active != nil && a.active.ID == id {
		a.active = nil
	}
	a.mu.Unlock()

	log.Info().Str("meeting_id", id.String()).Int("settled_sessions", len(closed)).Msg("ended meeting")
	return m, nil
}

// DeleteMeeting deletes a meeting and everything under it.
func (a *App) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteMeeting(ctx, id); err != nil {
		return err
	}
	if a.live != nil {
		a.live.Reset(id)
	}
	a.mu.Lock()
	if a.active != nil && a.active.ID == id {
		a.active = nil
	}
	a.mu.Unlock()
	return nil
}
