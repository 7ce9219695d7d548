package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/models"
	"github.com/mcdev12/floortime/internal/subjects"
)

// SubjectsApp defines what the subjects handler needs from the app layer
type SubjectsApp interface {
	CreateSubject(ctx context.Context, meetingID uuid.UUID, title string) (*models.Subject, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error)
	ToggleDiscussed(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error
}

type SubjectsHandler struct {
	app SubjectsApp
}

func NewSubjectsHandler(app SubjectsApp) *SubjectsHandler {
	return &SubjectsHandler{app: app}
}

func (h *SubjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

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

	s, err := h.app.CreateSubject(r.Context(), meetingID, req.Title)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create subject"))
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	list, err := h.app.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list subjects"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": list})
}

func (h *SubjectsHandler) ToggleDiscussed(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "subjectID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID"))
		return
	}

	s, err := h.app.ToggleDiscussed(r.Context(), id)
	if errors.Is(err, subjects.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to toggle subject"))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SubjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "subjectID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID"))
		return
	}

	if err := h.app.DeleteSubject(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete subject"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}
