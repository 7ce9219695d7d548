package main

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/floortime/internal/httpapi"
)

func setupServer(services *Services) *http.Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	// WebSocket fanout and the reconnect snapshot endpoint.
	services.Gateway.RegisterRoutes(mux)

	// REST API.
	api := httpapi.New(
		services.JWTAuth,
		httpapi.NewMeetingsHandler(services.Meetings),
		httpapi.NewParticipantsHandler(services.Participants),
		httpapi.NewSpeakingHandler(services.Speaking),
		httpapi.NewSessionsHandler(services.Sessions),
		httpapi.NewSubjectsHandler(services.Subjects),
		httpapi.NewQuestionsHandler(services.Questions),
	)
	mux.Handle("/", api)

	handler := c.Handler(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}
