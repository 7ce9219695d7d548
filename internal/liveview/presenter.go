package liveview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/floortime/internal/models"
)

// Presenter renders a continuously advancing elapsed-time display for the
// active speaker of one meeting view. It is a per-client presentation
// cache: a 1-second tick triggers re-render, the displayed value is
// recomputed from the clock, and no remote calls happen on the tick path.
type Presenter struct {
	clock clockwork.Clock

	mu     sync.Mutex
	active *activeDisplay
	totals map[uuid.UUID]int // last known total_speaking_time per participant
}

// activeDisplay seeds the advancing counter: the instant this client
// observed the speaker become active and the persisted total at that
// point. The observation instant approximates the true server-side start
// when the transition arrives through the change feed.
type activeDisplay struct {
	participantID uuid.UUID
	startInstant  time.Time
	baseSeconds   int
}

// NewPresenter creates a presenter ticking on the given clock.
func NewPresenter(clock clockwork.Clock) *Presenter {
	return &Presenter{
		clock:  clock,
		totals: make(map[uuid.UUID]int),
	}
}

// ObserveParticipants reconciles the presenter with a freshly fetched
// participant list. A newly active speaker is seeded from their persisted
// total and the observation instant; if nobody is speaking the advancing
// display is cleared; a speaker already being displayed keeps their seed.
func (p *Presenter) ObserveParticipants(participants []models.Participant) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var speaking *models.Participant
	for i := range participants {
		p.totals[participants[i].ID] = participants[i].TotalSpeakingTime
		if participants[i].IsCurrentlySpeaking {
			speaking = &participants[i]
		}
	}

	if speaking == nil {
		p.active = nil
		return
	}
	if p.active != nil && p.active.participantID == speaking.ID {
		return
	}
	p.active = &activeDisplay{
		participantID: speaking.ID,
		startInstant:  p.clock.Now(),
		baseSeconds:   speaking.TotalSpeakingTime,
	}
}

// SpeakerStarted resets the display for a self-initiated start: elapsed
// restarts at zero on top of the given persisted total.
func (p *Presenter) SpeakerStarted(participantID uuid.UUID, baseSeconds int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totals[participantID] = baseSeconds
	p.active = &activeDisplay{
		participantID: participantID,
		startInstant:  p.clock.Now(),
		baseSeconds:   baseSeconds,
	}
}

// SpeakerStopped clears the advancing display.
func (p *Presenter) SpeakerStopped() {
	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()
}

// DisplaySeconds returns the value to render for a participant: the
// advancing base+elapsed for the active speaker, the last known total for
// everyone else.
func (p *Presenter) DisplaySeconds(participantID uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil && p.active.participantID == participantID {
		return p.active.baseSeconds + int(p.clock.Now().Sub(p.active.startInstant)/time.Second)
	}
	return p.totals[participantID]
}

// ActiveElapsed returns the advancing elapsed seconds for the active
// speaker, without the persisted base.
func (p *Presenter) ActiveElapsed() (participantID uuid.UUID, elapsed int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return uuid.Nil, 0, false
	}
	return p.active.participantID, int(p.clock.Now().Sub(p.active.startInstant) / time.Second), true
}

// Run invokes onTick once per second until the context is cancelled. The
// callback is a display refresh only.
func (p *Presenter) Run(ctx context.Context, onTick func()) {
	ticker := p.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			onTick()
		}
	}
}
