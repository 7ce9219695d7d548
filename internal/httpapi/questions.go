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
	"github.com/mcdev12/floortime/internal/questions"
)

// QuestionsApp defines what the questions handler needs from the app
// layer
type QuestionsApp interface {
	CreateQuestion(ctx context.Context, meetingID uuid.UUID, text, askerName string, isAnonymous bool) (*models.Question, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error)
	ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

type QuestionsHandler struct {
	app QuestionsApp
}

func NewQuestionsHandler(app QuestionsApp) *QuestionsHandler {
	return &QuestionsHandler{app: app}
}

func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	var req struct {
		Text        string `json:"text"`
		AskerName   string `json:"asker_name"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "text is required"))
		return
	}

	q, err := h.app.CreateQuestion(r.Context(), meetingID, req.Text, req.AskerName, req.IsAnonymous)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create question"))
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	list, err := h.app.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list questions"))
		return
	}

	type questionView struct {
		models.Question
		DisplayAsker string `json:"display_asker"`
	}
	views := make([]questionView, 0, len(list))
	for _, q := range list {
		views = append(views, questionView{Question: q, DisplayAsker: q.DisplayAsker()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": views})
}

func (h *QuestionsHandler) ToggleAnswered(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question ID"))
		return
	}

	q, err := h.app.ToggleAnswered(r.Context(), id)
	if errors.Is(err, questions.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Question not found"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to toggle question"))
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question ID"))
		return
	}

	if err := h.app.DeleteQuestion(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete question"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}
