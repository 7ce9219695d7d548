package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/auth"
	"github.com/mcdev12/floortime/internal/meetings"
	"github.com/mcdev12/floortime/internal/models"
)

// MeetingsApp defines what the meetings handler needs from the app layer
type MeetingsApp interface {
	CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	ActiveMeeting() *models.Meeting
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
	EndMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, id uuid.UUID) error
}

type MeetingsHandler struct {
	app MeetingsApp
}

func NewMeetingsHandler(app MeetingsApp) *MeetingsHandler {
	return &MeetingsHandler{app: app}
}

func (h *MeetingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "title is required"))
		return
	}

	ownerID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Authentication required"))
		return
	}

	m, err := h.app.CreateMeeting(r.Context(), req.Title, ownerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create meeting"))
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MeetingsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.ListMeetings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list meetings"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meetings": list})
}

func (h *MeetingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	m, err := h.app.GetMeeting(r.Context(), id)
	if errors.Is(err, meetings.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Meeting not found"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch meeting"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetActive returns the single active meeting, or 404 when none is
// running.
func (h *MeetingsHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	m := h.app.ActiveMeeting()
	if m == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active meeting"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingsHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	m, err := h.app.EndMeeting(r.Context(), id)
	if errors.Is(err, meetings.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Meeting not found"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to end meeting"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	if err := h.app.DeleteMeeting(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete meeting"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Meeting deleted"})
}
