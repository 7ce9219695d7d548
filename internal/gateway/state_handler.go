package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/internal/models"
)

// ParticipantLister is the read the snapshot needs from the participant
// store.
type ParticipantLister interface {
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error)
}

// SpeakingState is the slice of the speaking controller the snapshot
// needs: who this server believes holds the floor and for how long.
type SpeakingState interface {
	Active(meetingID uuid.UUID) (participantID uuid.UUID, since time.Time, ok bool)
	ElapsedSeconds(meetingID uuid.UUID) (int, bool)
}

// MeetingStateResponse seeds a reconnecting client: the leaderboard plus
// the active speaker and their elapsed seconds so the client-side timer
// can resume without waiting for the next change event.
type MeetingStateResponse struct {
	MeetingID       string            `json:"meeting_id"`
	ActiveSpeaker   *ActiveSpeaker    `json:"active_speaker,omitempty"`
	Participants    []ParticipantInfo `json:"participants"`
	SnapshotTakenAt time.Time         `json:"snapshot_taken_at"`
}

// ActiveSpeaker describes the participant currently holding the floor.
type ActiveSpeaker struct {
	ParticipantID string    `json:"participant_id"`
	Name          string    `json:"name"`
	Since         time.Time `json:"since"`
	ElapsedSec    int       `json:"elapsed_sec"`
}

// ParticipantInfo is one leaderboard row.
type ParticipantInfo struct {
	ParticipantID       string `json:"participant_id"`
	Name                string `json:"name"`
	TotalSpeakingTime   int    `json:"total_speaking_time"`
	SpeakingSessions    int    `json:"speaking_sessions"`
	IsCurrentlySpeaking bool   `json:"is_currently_speaking"`
}

// StateHandler serves meeting state snapshots.
type StateHandler struct {
	participants ParticipantLister
	speaking     SpeakingState
}

// NewStateHandler creates a new state handler
func NewStateHandler(participants ParticipantLister, speaking SpeakingState) *StateHandler {
	return &StateHandler{participants: participants, speaking: speaking}
}

// HandleGetMeetingState handles GET /api/meetings/{id}/state
func (h *StateHandler) HandleGetMeetingState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	meetingIDStr := extractMeetingIDFromPath(r.URL.Path)
	if meetingIDStr == "" {
		http.Error(w, "Meeting ID is required", http.StatusBadRequest)
		return
	}
	meetingID, err := uuid.Parse(meetingIDStr)
	if err != nil {
		http.Error(w, "Invalid meeting ID format", http.StatusBadRequest)
		return
	}

	state, err := h.buildState(r.Context(), meetingID)
	if err != nil {
		log.Error().Err(err).Str("meeting_id", meetingID.String()).Msg("failed to get meeting state")
		http.Error(w, "Failed to get meeting state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Error().Err(err).Msg("failed to encode meeting state")
	}
}

func (h *StateHandler) buildState(ctx context.Context, meetingID uuid.UUID) (*MeetingStateResponse, error) {
	participants, err := h.participants.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	state := &MeetingStateResponse{
		MeetingID:       meetingID.String(),
		Participants:    make([]ParticipantInfo, 0, len(participants)),
		SnapshotTakenAt: time.Now(),
	}

	names := make(map[uuid.UUID]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
		state.Participants = append(state.Participants, ParticipantInfo{
			ParticipantID:       p.ID.String(),
			Name:                p.Name,
			TotalSpeakingTime:   p.TotalSpeakingTime,
			SpeakingSessions:    p.SpeakingSessions,
			IsCurrentlySpeaking: p.IsCurrentlySpeaking,
		})
	}

	if pid, since, ok := h.speaking.Active(meetingID); ok {
		elapsed, _ := h.speaking.ElapsedSeconds(meetingID)
		state.ActiveSpeaker = &ActiveSpeaker{
			ParticipantID: pid.String(),
			Name:          names[pid],
			Since:         since,
			ElapsedSec:    elapsed,
		}
	}

	return state, nil
}

// RegisterStateRoutes registers state endpoints with an HTTP mux
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/meetings/", h.HandleGetMeetingState)
}

// extractMeetingIDFromPath parses /api/meetings/{id}/state
func extractMeetingIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "api" || parts[1] != "meetings" || parts[3] != "state" {
		return ""
	}
	return parts[2]
}
