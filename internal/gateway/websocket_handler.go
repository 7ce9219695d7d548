package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for meeting
// connections.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{connectionManager: cm}
}

// HandleMeetingConnection handles WebSocket connections for a meeting.
func (h *WebSocketHandler) HandleMeetingConnection(w http.ResponseWriter, r *http.Request) {
	meetingIDStr := r.URL.Query().Get("meeting_id")
	if meetingIDStr == "" {
		http.Error(w, "meeting_id is required", http.StatusBadRequest)
		return
	}

	meetingID, err := uuid.Parse(meetingIDStr)
	if err != nil {
		http.Error(w, "invalid meeting_id format", http.StatusBadRequest)
		return
	}

	// In production the user comes from the session; anonymous viewers
	// are allowed.
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, meetingID); err != nil {
		log.Error().
			Err(err).
			Str("meeting_id", meetingID.String()).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, meetings := h.connectionManager.ConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"total_connections": total,
		"active_meetings":   meetings,
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/meeting", h.HandleMeetingConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
