package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mcdev12/floortime/internal/auth"
)

// New builds the REST router. Meeting lifecycle routes require a bearer
// token; everything under an existing meeting is open to the room.
func New(
	jwtAuth *auth.JWTAuth,
	meetingsHandler *MeetingsHandler,
	participantsHandler *ParticipantsHandler,
	speakingHandler *SpeakingHandler,
	sessionsHandler *SessionsHandler,
	subjectsHandler *SubjectsHandler,
	questionsHandler *QuestionsHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/meetings", func(r chi.Router) {
			r.Get("/", meetingsHandler.List)
			r.Get("/active", meetingsHandler.GetActive)
			r.Get("/{id}", meetingsHandler.Get)

			// Lifecycle changes are restricted to authenticated owners.
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", meetingsHandler.Create)
				r.Post("/{id}/end", meetingsHandler.End)
				r.Delete("/{id}", meetingsHandler.Delete)
			})

			r.Route("/{id}/participants", func(r chi.Router) {
				r.Post("/", participantsHandler.Create)
				r.Get("/", participantsHandler.List)
				r.Delete("/{participantID}", participantsHandler.Delete)
			})

			r.Route("/{id}/speaking", func(r chi.Router) {
				r.Post("/start", speakingHandler.Start)
				r.Post("/stop", speakingHandler.Stop)
			})

			r.Get("/{id}/sessions", sessionsHandler.List)

			r.Route("/{id}/subjects", func(r chi.Router) {
				r.Post("/", subjectsHandler.Create)
				r.Get("/", subjectsHandler.List)
				r.Put("/{subjectID}/discussed", subjectsHandler.ToggleDiscussed)
				r.Delete("/{subjectID}", subjectsHandler.Delete)
			})

			r.Route("/{id}/questions", func(r chi.Router) {
				r.Post("/", questionsHandler.Create)
				r.Get("/", questionsHandler.List)
				r.Put("/{questionID}/answered", questionsHandler.ToggleAnswered)
				r.Delete("/{questionID}", questionsHandler.Delete)
			})
		})
	})

	return r
}
