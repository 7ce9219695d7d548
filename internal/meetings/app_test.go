package meetings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/floortime/internal/models"
)

type fakeMeetingsRepo struct {
	meetings map[uuid.UUID]*models.Meeting
}

func newFakeMeetingsRepo() *fakeMeetingsRepo {
	return &fakeMeetingsRepo{meetings: make(map[uuid.UUID]*models.Meeting)}
}

func (f *fakeMeetingsRepo) CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error) {
	m := &models.Meeting{ID: uuid.New(), Title: title, OwnerID: ownerID, IsActive: true, CreatedAt: time.Now()}
	f.meetings[m.ID] = m
	return m, nil
}

func (f *fakeMeetingsRepo) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeMeetingsRepo) GetActiveMeeting(ctx context.Context) (*models.Meeting, error) {
	for _, m := range f.meetings {
		if m.IsActive {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeMeetingsRepo) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	var out []models.Meeting
	for _, m := range f.meetings {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMeetingsRepo) DeactivateMeeting(ctx context.Context, id uuid.UUID) error {
	if m, ok := f.meetings[id]; ok {
		m.IsActive = false
	}
	return nil
}

func (f *fakeMeetingsRepo) EndMeeting(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.IsActive = false
	m.EndedAt = &endedAt
	return m, nil
}

func (f *fakeMeetingsRepo) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	delete(f.meetings, id)
	return nil
}

type fakeLedger struct {
	open []models.SpeakingSession
}

func (f *fakeLedger) CloseOpenWithDuration(ctx context.Context, meetingID uuid.UUID, endedAt time.Time) ([]models.SpeakingSession, error) {
	var closed []models.SpeakingSession
	for _, s := range f.open {
		if s.MeetingID != meetingID || s.EndedAt != nil {
			continue
		}
		dur := int(endedAt.Sub(s.StartedAt) / time.Second)
		s.EndedAt = &endedAt
		s.Duration = &dur
		closed = append(closed, s)
	}
	f.open = nil
	return closed, nil
}

type fakeAggregates struct {
	credited map[uuid.UUID]int
	cleared  int
}

func (f *fakeAggregates) ClearSpeakingFlags(ctx context.Context, meetingID uuid.UUID) error {
	f.cleared++
	return nil
}

func (f *fakeAggregates) CreditStop(ctx context.Context, participantID uuid.UUID, seconds int) error {
	if f.credited == nil {
		f.credited = make(map[uuid.UUID]int)
	}
	f.credited[participantID] += seconds
	return nil
}

type fakeLive struct {
	resets []uuid.UUID
}

func (f *fakeLive) Reset(meetingID uuid.UUID) {
	f.resets = append(f.resets, meetingID)
}

func TestCreateMeetingDeactivatesPriorActive(t *testing.T) {
	repo := newFakeMeetingsRepo()
	app := NewApp(repo, &fakeLedger{}, &fakeAggregates{}, &fakeLive{}, clockwork.NewFakeClock())

	first, err := app.CreateMeeting(context.Background(), "standup", uuid.New())
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	second, err := app.CreateMeeting(context.Background(), "retro", uuid.New())
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}

	if repo.meetings[first.ID].IsActive {
		t.Fatal("first meeting should have been deactivated")
	}
	if active := app.ActiveMeeting(); active == nil || active.ID != second.ID {
		t.Fatalf("active meeting = %v, want %s", active, second.ID)
	}
}

func TestCreateMeetingRequiresTitle(t *testing.T) {
	app := NewApp(newFakeMeetingsRepo(), &fakeLedger{}, &fakeAggregates{}, &fakeLive{}, clockwork.NewFakeClock())

	if _, err := app.CreateMeeting(context.Background(), "  ", uuid.New()); err == nil {
		t.Fatal("expected validation error for blank title")
	}
}

func TestEndMeetingSettlesOpenSession(t *testing.T) {
	clock := clockwork.NewFakeClock()
	repo := newFakeMeetingsRepo()
	aggs := &fakeAggregates{}
	live := &fakeLive{}

	participantID := uuid.New()
	ledger := &fakeLedger{}
	app := NewApp(repo, ledger, aggs, live, clock)

	m, err := app.CreateMeeting(context.Background(), "planning", uuid.New())
	if err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	ledger.open = []models.SpeakingSession{{
		ID:            uuid.New(),
		ParticipantID: participantID,
		MeetingID:     m.ID,
		StartedAt:     clock.Now(),
	}}

	clock.Advance(42 * time.Second)

	ended, err := app.EndMeeting(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("EndMeeting: %v", err)
	}
	if ended.EndedAt == nil || ended.IsActive {
		t.Fatalf("meeting not marked ended: %+v", ended)
	}
	if got := aggs.credited[participantID]; got != 42 {
		t.Fatalf("credited %d seconds, want 42", got)
	}
	if aggs.cleared != 1 {
		t.Fatalf("ClearSpeakingFlags called %d times, want 1", aggs.cleared)
	}
	if len(live.resets) == 0 || live.resets[len(live.resets)-1] != m.ID {
		t.Fatal("live state was not reset for the ended meeting")
	}
	if app.ActiveMeeting() != nil {
		t.Fatal("active-meeting reference should be cleared after end")
	}
}

func TestLoadActiveSeedsReference(t *testing.T) {
	repo := newFakeMeetingsRepo()
	app := NewApp(repo, &fakeLedger{}, &fakeAggregates{}, &fakeLive{}, clockwork.NewFakeClock())

	m, _ := repo.CreateMeeting(context.Background(), "standup", uuid.New())

	if err := app.LoadActive(context.Background()); err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if active := app.ActiveMeeting(); active == nil || active.ID != m.ID {
		t.Fatalf("active meeting = %v, want %s", active, m.ID)
	}
}

func TestLoadActiveNoActiveMeeting(t *testing.T) {
	app := NewApp(newFakeMeetingsRepo(), &fakeLedger{}, &fakeAggregates{}, &fakeLive{}, clockwork.NewFakeClock())

	if err := app.LoadActive(context.Background()); err != nil {
		t.Fatalf("LoadActive with empty store: %v", err)
	}
	if app.ActiveMeeting() != nil {
		t.Fatal("expected no active meeting")
	}
}
