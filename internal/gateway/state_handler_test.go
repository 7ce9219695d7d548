package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/models"
)

type fakeLister struct {
	participants []models.Participant
}

func (f *fakeLister) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error) {
	return f.participants, nil
}

type fakeSpeaking struct {
	active  uuid.UUID
	since   time.Time
	elapsed int
	ok      bool
}

func (f *fakeSpeaking) Active(meetingID uuid.UUID) (uuid.UUID, time.Time, bool) {
	return f.active, f.since, f.ok
}

func (f *fakeSpeaking) ElapsedSeconds(meetingID uuid.UUID) (int, bool) {
	return f.elapsed, f.ok
}

func TestHandleGetMeetingState(t *testing.T) {
	meetingID := uuid.New()
	alice := uuid.New()
	h := NewStateHandler(
		&fakeLister{participants: []models.Participant{
			{ID: alice, MeetingID: meetingID, Name: "Alice", TotalSpeakingTime: 30, IsCurrentlySpeaking: true},
			{ID: uuid.New(), MeetingID: meetingID, Name: "Bob", TotalSpeakingTime: 12},
		}},
		&fakeSpeaking{active: alice, since: time.Now(), elapsed: 8, ok: true},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/meetings/"+meetingID.String()+"/state", nil)
	rr := httptest.NewRecorder()
	h.HandleGetMeetingState(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var state MeetingStateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(state.Participants) != 2 {
		t.Errorf("participants = %d, want 2", len(state.Participants))
	}
	if state.ActiveSpeaker == nil {
		t.Fatal("expected active speaker in snapshot")
	}
	if state.ActiveSpeaker.Name != "Alice" || state.ActiveSpeaker.ElapsedSec != 8 {
		t.Errorf("active speaker = %+v", state.ActiveSpeaker)
	}
}

func TestHandleGetMeetingStateIdle(t *testing.T) {
	h := NewStateHandler(&fakeLister{}, &fakeSpeaking{})

	req := httptest.NewRequest(http.MethodGet, "/api/meetings/"+uuid.New().String()+"/state", nil)
	rr := httptest.NewRecorder()
	h.HandleGetMeetingState(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var state MeetingStateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if state.ActiveSpeaker != nil {
		t.Error("expected no active speaker")
	}
}

func TestHandleGetMeetingStateBadID(t *testing.T) {
	h := NewStateHandler(&fakeLister{}, &fakeSpeaking{})

	req := httptest.NewRequest(http.MethodGet, "/api/meetings/not-a-uuid/state", nil)
	rr := httptest.NewRecorder()
	h.HandleGetMeetingState(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestExtractMeetingIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/meetings/abc/state", "abc"},
		{"/api/meetings/abc", ""},
		{"/api/meetings/abc/other", ""},
		{"/health", ""},
	}
	for _, tc := range tests {
		if got := extractMeetingIDFromPath(tc.path); got != tc.want {
			t.Errorf("extractMeetingIDFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestBroadcastToMeetingWithoutConnections(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())

	// No watchers registered; the broadcast must be dropped quietly.
	cm.BroadcastToMeeting(uuid.New(), &Event{Type: "participants.UPDATE"})
	cm.handleBroadcast(<-cm.broadcastCh)

	total, meetings := cm.ConnectionStats()
	if total != 0 || meetings != 0 {
		t.Errorf("stats = %d,%d, want 0,0", total, meetings)
	}
}
