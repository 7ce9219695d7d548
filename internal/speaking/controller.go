package speaking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// ErrNoLiveSession is returned by StopSpeaking when the controller holds
// no open session for the participant.
var ErrNoLiveSession = errors.New("no open speaking session for participant")

// ParticipantStore defines what the controller needs from the
// participant aggregate.
type ParticipantStore interface {
	GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error)
	ClearSpeakingFlags(ctx context.Context, meetingID uuid.UUID) error
	SetSpeaking(ctx context.Context, id uuid.UUID) error
	CreditStop(ctx context.Context, id uuid.UUID, seconds int) error
}

// SessionLedger defines what the controller needs from the
// speaking-session ledger.
type SessionLedger interface {
	Open(ctx context.Context, meetingID, participantID uuid.UUID, startedAt time.Time) (*models.SpeakingSession, error)
	Close(ctx context.Context, id uuid.UUID, endedAt time.Time, duration int) error
	CloseOpenInMeeting(ctx context.Context, meetingID uuid.UUID, endedAt time.Time) error
}

// liveSession is the controller's local bookkeeping for the open session
// it started. StopSpeaking trusts this record for the session identity
// and elapsed time instead of re-querying the store.
type liveSession struct {
	participantID uuid.UUID
	sessionID     uuid.UUID
	startedAt     time.Time
}

// Controller transitions the who-is-speaking state for a meeting. It is
// the single authoritative mutation path for speaking state in this
// process: operations on the same controller serialize, so the
// single-active-speaker invariant holds for everything it writes.
// Independent processes racing on the same meeting resolve by
// last-write-wins, healed by the stale-session cleanup on the next
// successful start.
type Controller struct {
	participants ParticipantStore
	ledger       SessionLedger
	clock        clockwork.Clock

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession // keyed by meeting ID
}

// NewController creates a new speaking state controller.
func NewController(participants ParticipantStore, ledger SessionLedger, clock clockwork.Clock) *Controller {
	return &Controller{
		participants: participants,
		ledger:       ledger,
		clock:        clock,
		live:         make(map[uuid.UUID]*liveSession),
	}
}

// StartSpeaking makes the participant the sole active speaker of the
// meeting. The five steps run sequentially with no transaction and no
// rollback: a failing step leaves the store in whatever state the
// completed steps produced, and the error is surfaced to the caller.
func (c *Controller) StartSpeaking(ctx context.Context, meetingID, participantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return fmt.Errorf("failed to look up participant: %w", err)
	}
	if p.MeetingID != meetingID {
		return fmt.Errorf("participant %s does not belong to meeting %s", participantID, meetingID)
	}

	now := c.clock.Now()

	// 1. Broadcast clear: nobody in the meeting is marked speaking.
	if err := c.participants.ClearSpeakingFlags(ctx, meetingID); err != nil {
		return fmt.Errorf("failed to clear speaking flags: %w", err)
	}

	// 2. Close any session left open by a crash or failed stop. The
	// stale interval gets an ended_at but no duration and no credit.
	if err := c.ledger.CloseOpenInMeeting(ctx, meetingID, now); err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}

	// 3. Open the new ledger entry.
	session, err := c.ledger.Open(ctx, meetingID, participantID, now)
	if err != nil {
		return fmt.Errorf("failed to open speaking session: %w", err)
	}

	// 4. Mark the participant as the active speaker.
	if err := c.participants.SetSpeaking(ctx, participantID); err != nil {
		return fmt.Errorf("failed to set speaking flag: %w", err)
	}

	// 5. Reset local bookkeeping for this meeting.
	c.live[meetingID] = &liveSession{
		participantID: participantID,
		sessionID:     session.ID,
		startedAt:     now,
	}

	log.Info().
		Str("meeting_id", meetingID.String()).
		Str("participant_id", participantID.String()).
		Str("session_id", session.ID.String()).
		Msg("started speaking session")
	return nil
}

// StopSpeaking closes the participant's open session and settles the
// aggregate. The credited duration is the locally observed whole seconds
// since StartSpeaking, not a recomputation from server timestamps; the
// two can drift if this process was suspended in between.
func (c *Controller) StopSpeaking(ctx context.Context, participantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var meetingID uuid.UUID
	var ls *liveSession
	for mid, s := range c.live {
		if s.participantID == participantID {
			meetingID = mid
			ls = s
			break
		}
	}
	if ls == nil {
		return ErrNoLiveSession
	}

	now := c.clock.Now()
	duration := int(now.Sub(ls.startedAt) / time.Second)

	if err := c.ledger.Close(ctx, ls.sessionID, now, duration); err != nil {
		return fmt.Errorf("failed to close speaking session: %w", err)
	}
	if err := c.participants.CreditStop(ctx, participantID, duration); err != nil {
		return fmt.Errorf("failed to update participant totals: %w", err)
	}

	delete(c.live, meetingID)

	log.Info().
		Str("meeting_id", meetingID.String()).
		Str("participant_id", participantID.String()).
		Int("duration_sec", duration).
		Msg("stopped speaking session")
	return nil
}

// Active reports the participant this controller believes is speaking in
// the meeting and when they started.
func (c *Controller) Active(meetingID uuid.UUID) (participantID uuid.UUID, since time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls, ok := c.live[meetingID]
	if !ok {
		return uuid.Nil, time.Time{}, false
	}
	return ls.participantID, ls.startedAt, true
}

// ElapsedSeconds returns the whole seconds the active speaker has held
// the floor so far, per local bookkeeping.
func (c *Controller) ElapsedSeconds(meetingID uuid.UUID) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls, ok := c.live[meetingID]
	if !ok {
		return 0, false
	}
	return int(c.clock.Now().Sub(ls.startedAt) / time.Second), true
}

// Reset drops local bookkeeping for a meeting. Called when the meeting
// ends or its state is force-settled elsewhere.
func (c *Controller) Reset(meetingID uuid.UUID) {
	c.mu.Lock()
	delete(c.live, meetingID)
	c.mu.Unlock()
}
