package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/models"
)

// ParticipantsApp defines what the participants handler needs from the
// app layer
type ParticipantsApp interface {
	CreateParticipant(ctx context.Context, meetingID uuid.UUID, name string) (*models.Participant, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

type ParticipantsHandler struct {
	app ParticipantsApp
}

func NewParticipantsHandler(app ParticipantsApp) *ParticipantsHandler {
	return &ParticipantsHandler{app: app}
}

func (h *ParticipantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required"))
		return
	}

	p, err := h.app.CreateParticipant(r.Context(), meetingID, req.Name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create participant"))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List returns the meeting's participants ordered by total speaking
// time descending.
func (h *ParticipantsHandler) List(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	list, err := h.app.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list participants"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": list})
}

func (h *ParticipantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "participantID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid participant ID"))
		return
	}

	if err := h.app.DeleteParticipant(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete participant"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Participant deleted"})
}
