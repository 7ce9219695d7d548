package liveview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/feed"
	"github.com/mcdev12/floortime/internal/models"
)

// Fetcher defines the list reads a meeting view performs when the change
// feed reports something changed. Re-fetch is always the full list; no
// incremental patching.
type Fetcher interface {
	ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error)
	ListSessions(ctx context.Context, meetingID uuid.UUID) ([]models.SpeakingSession, error)
	ListSubjects(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error)
	ListQuestions(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error)
}

// View keeps one client's in-memory projection of a meeting eventually
// consistent with the store. It subscribes to the per-table change
// subjects for the meeting and re-fetches the affected list on every
// notification.
type View struct {
	meetingID     uuid.UUID
	fetcher       Fetcher
	presenter     *Presenter
	nc            *nats.Conn
	subjectPrefix string
	fetchTimeout  time.Duration

	subs []*nats.Subscription

	mu           sync.RWMutex
	participants []models.Participant
	sessions     []models.SpeakingSession
	subjects     []models.Subject
	questions    []models.Question
}

// NewView creates a meeting view. Call Subscribe to attach it to the
// change feed and Close when leaving the meeting.
func NewView(nc *nats.Conn, subjectPrefix string, fetcher Fetcher, presenter *Presenter, meetingID uuid.UUID) *View {
	return &View{
		meetingID:     meetingID,
		fetcher:       fetcher,
		presenter:     presenter,
		nc:            nc,
		subjectPrefix: subjectPrefix,
		fetchTimeout:  10 * time.Second,
	}
}

// Subscribe performs the initial fetch of every list and then subscribes
// to the meeting's change subjects, one per table.
func (v *View) Subscribe(ctx context.Context) error {
	tables := []string{feed.TableParticipants, feed.TableSpeakingSessions, feed.TableSubjects, feed.TableQuestions}

	for _, table := range tables {
		if err := v.refresh(ctx, table); err != nil {
			return fmt.Errorf("initial fetch of %s: %w", table, err)
		}
	}

	for _, table := range tables {
		table := table
		sub, err := v.nc.Subscribe(feed.Subject(v.subjectPrefix, v.meetingID, table), func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), v.fetchTimeout)
			defer cancel()
			if err := v.refresh(ctx, table); err != nil {
				log.Error().Err(err).Str("table", table).Str("meeting_id", v.meetingID.String()).Msg("failed to refresh on change")
			}
		})
		if err != nil {
			v.Close()
			return fmt.Errorf("subscribe to %s changes: %w", table, err)
		}
		v.subs = append(v.subs, sub)
	}

	log.Info().Str("meeting_id", v.meetingID.String()).Msg("meeting view subscribed to change feed")
	return nil
}

// Close unsubscribes all change subscriptions.
func (v *View) Close() {
	for _, sub := range v.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Error().Err(err).Msg("failed to unsubscribe")
		}
	}
	v.subs = nil
}

// refresh re-fetches one table's list for the meeting. A participant
// refresh also reconciles the live timer presenter.
func (v *View) refresh(ctx context.Context, table string) error {
	switch table {
	case feed.TableParticipants:
		participants, err := v.fetcher.ListParticipants(ctx, v.meetingID)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.participants = participants
		v.mu.Unlock()
		if v.presenter != nil {
			v.presenter.ObserveParticipants(participants)
		}
	case feed.TableSpeakingSessions:
		sessions, err := v.fetcher.ListSessions(ctx, v.meetingID)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.sessions = sessions
		v.mu.Unlock()
	case feed.TableSubjects:
		subjects, err := v.fetcher.ListSubjects(ctx, v.meetingID)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.subjects = subjects
		v.mu.Unlock()
	case feed.TableQuestions:
		questions, err := v.fetcher.ListQuestions(ctx, v.meetingID)
		if err != nil {
			return err
		}
		v.mu.Lock()
		v.questions = questions
		v.mu.Unlock()
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// Participants returns the current leaderboard projection, ordered by
// total speaking time descending as fetched.
func (v *View) Participants() []models.Participant {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Participant, len(v.participants))
	copy(out, v.participants)
	return out
}

// Sessions returns the current ledger projection.
func (v *View) Sessions() []models.SpeakingSession {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.SpeakingSession, len(v.sessions))
	copy(out, v.sessions)
	return out
}

// Subjects returns the current subjects projection.
func (v *View) Subjects() []models.Subject {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Subject, len(v.subjects))
	copy(out, v.subjects)
	return out
}

// Questions returns the current questions projection.
func (v *View) Questions() []models.Question {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Question, len(v.questions))
	copy(out, v.questions)
	return out
}
