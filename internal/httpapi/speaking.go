package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/speaking"
)

// SpeakingController defines what the speaking handler needs from the
// speaking state controller
type SpeakingController interface {
	StartSpeaking(ctx context.Context, meetingID, participantID uuid.UUID) error
	StopSpeaking(ctx context.Context, participantID uuid.UUID) error
}

type SpeakingHandler struct {
	controller SpeakingController
}

func NewSpeakingHandler(controller SpeakingController) *SpeakingHandler {
	return &SpeakingHandler{controller: controller}
}

// Start makes the given participant the sole active speaker of the
// meeting.
func (h *SpeakingHandler) Start(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	var req struct {
		ParticipantID uuid.UUID `json:"participant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.ParticipantID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "participant_id is required"))
		return
	}

	if err := h.controller.StartSpeaking(r.Context(), meetingID, req.ParticipantID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start speaking session"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Speaking started"})
}

// Stop closes the participant's open speaking session and credits the
// elapsed seconds to their total.
func (h *SpeakingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if _, err := uuid.Parse(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	var req struct {
		ParticipantID uuid.UUID `json:"participant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.ParticipantID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "participant_id is required"))
		return
	}

	err := h.controller.StopSpeaking(r.Context(), req.ParticipantID)
	if errors.Is(err, speaking.ErrNoLiveSession) {
		writeJSON(w, http.StatusConflict, errorResp("NO_LIVE_SESSION", "Participant has no open speaking session"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to stop speaking session"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Speaking stopped"})
}
