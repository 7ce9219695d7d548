package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*ChangeEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*ChangeEvent)}
}

func (f *fakeEventRepo) add(meetingID uuid.UUID, table string) *ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &ChangeEvent{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Table:     table,
		Op:        "UPDATE",
		RowID:     uuid.New(),
		CreatedAt: time.Now(),
	}
	f.events[e.ID] = e
	return e
}

func (f *fakeEventRepo) FetchByID(ctx context.Context, id uuid.UUID) (*ChangeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) FetchUnsent(ctx context.Context, limit int32) ([]ChangeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ChangeEvent
	for _, e := range f.events {
		if e.SentAt == nil {
			out = append(out, *e)
		}
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEventRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	e.SentAt = &now
	return nil
}

func (f *fakeEventRepo) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.SentAt != nil {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	mu        sync.Mutex
	published []ChangeEvent
	failures  int // fail this many calls before succeeding
}

func (f *fakePublisher) Publish(ctx context.Context, event ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("injected publish failure")
	}
	f.published = append(f.published, event)
	return nil
}

func newTestListener(repo EventRepository, pub Publisher) *Listener {
	cfg := DefaultListenerConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetries = 3
	return &Listener{repo: repo, publisher: pub, cfg: cfg}
}

func TestHandleNotificationPublishesAndMarksSent(t *testing.T) {
	repo := newFakeEventRepo()
	pub := &fakePublisher{}
	l := newTestListener(repo, pub)

	e := repo.add(uuid.New(), TableParticipants)
	if err := l.handleNotification(context.Background(), e.ID.String()); err != nil {
		t.Fatalf("handleNotification: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != e.ID {
		t.Fatalf("expected event published, got %+v", pub.published)
	}
	if repo.sentCount() != 1 {
		t.Error("expected event marked sent")
	}
}

func TestHandleNotificationBadPayload(t *testing.T) {
	l := newTestListener(newFakeEventRepo(), &fakePublisher{})
	if err := l.handleNotification(context.Background(), "not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid event id")
	}
}

func TestProcessUnsentSweepsBacklog(t *testing.T) {
	repo := newFakeEventRepo()
	pub := &fakePublisher{}
	l := newTestListener(repo, pub)

	meetingID := uuid.New()
	repo.add(meetingID, TableParticipants)
	repo.add(meetingID, TableSpeakingSessions)
	repo.add(meetingID, TableQuestions)

	if err := l.processUnsent(context.Background()); err != nil {
		t.Fatalf("processUnsent: %v", err)
	}
	if repo.sentCount() != 3 {
		t.Errorf("sent count = %d, want 3", repo.sentCount())
	}
	if len(pub.published) != 3 {
		t.Errorf("published = %d, want 3", len(pub.published))
	}
}

func TestPublishWithRetryRecovers(t *testing.T) {
	repo := newFakeEventRepo()
	pub := &fakePublisher{failures: 2}
	l := newTestListener(repo, pub)

	e := repo.add(uuid.New(), TableSubjects)
	if err := l.publishWithRetry(context.Background(), *e); err != nil {
		t.Fatalf("publishWithRetry: %v", err)
	}
	if len(pub.published) != 1 {
		t.Errorf("published = %d, want 1", len(pub.published))
	}
}

func TestPublishWithRetryExhausts(t *testing.T) {
	repo := newFakeEventRepo()
	pub := &fakePublisher{failures: 10}
	l := newTestListener(repo, pub)

	e := repo.add(uuid.New(), TableSubjects)
	if err := l.publishWithRetry(context.Background(), *e); err == nil {
		t.Fatal("expected exhausted retries to fail")
	}
}

func TestSubjectFormat(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	got := Subject("meeting.changes", id, TableParticipants)
	want := "meeting.changes.11111111-2222-3333-4444-555555555555.participants"
	if got != want {
		t.Errorf("Subject = %q, want %q", got, want)
	}
}
