package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/models"
)

// SessionsLedger defines the read the sessions handler needs from the
// speaking-session ledger
type SessionsLedger interface {
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.SpeakingSession, error)
}

type SessionsHandler struct {
	ledger SessionsLedger
}

func NewSessionsHandler(ledger SessionsLedger) *SessionsHandler {
	return &SessionsHandler{ledger: ledger}
}

// List returns the meeting's speaking-session ledger, newest first.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid meeting ID"))
		return
	}

	list, err := h.ledger.ListByMeeting(r.Context(), meetingID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list speaking sessions"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": list})
}
