package main

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/floortime/internal/auth"
	"github.com/mcdev12/floortime/internal/feed"
	"github.com/mcdev12/floortime/internal/gateway"
	"github.com/mcdev12/floortime/internal/meetings"
	"github.com/mcdev12/floortime/internal/participants"
	"github.com/mcdev12/floortime/internal/questions"
	"github.com/mcdev12/floortime/internal/sessions"
	"github.com/mcdev12/floortime/internal/speaking"
	"github.com/mcdev12/floortime/internal/subjects"
)

type Services struct {
	Meetings     *meetings.App
	Participants *participants.App
	Sessions     *sessions.Repository
	Subjects     *subjects.App
	Questions    *questions.App
	Speaking     *speaking.Controller
	Gateway      *gateway.Service
	FeedListener *feed.Listener
	JWTAuth      *auth.JWTAuth
}

func setupServices(pool *pgxpool.Pool, dbConfig DatabaseConfig, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → transport

	clock := clockwork.NewRealClock()

	meetingsRepo := meetings.NewRepository(pool)
	participantsRepo := participants.NewRepository(pool)
	sessionsRepo := sessions.NewRepository(pool)
	subjectsRepo := subjects.NewRepository(pool)
	questionsRepo := questions.NewRepository(pool)
	feedRepo := feed.NewRepository(pool)

	controller := speaking.NewController(participantsRepo, sessionsRepo, clock)

	meetingsApp := meetings.NewApp(meetingsRepo, sessionsRepo, participantsRepo, controller, clock)
	participantsApp := participants.NewApp(participantsRepo)
	subjectsApp := subjects.NewApp(subjectsRepo)
	questionsApp := questions.NewApp(questionsRepo)

	natsURL := getEnv("NATS_URL", "")

	jsCfg := feed.DefaultJetStreamConfig()
	if config != nil && config.NATS.URL != "" {
		jsCfg.URL = config.NATS.URL
	}
	if config != nil && config.NATS.StreamName != "" {
		jsCfg.StreamName = config.NATS.StreamName
	}
	if natsURL != "" {
		jsCfg.URL = natsURL
	}

	publisher, err := feed.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create change event publisher: %w", err)
	}

	listenerCfg := feed.DefaultListenerConfig()
	listenerCfg.DatabaseURL = dbConfig.DSN()
	if config != nil && config.Feed.NotifyChannel != "" {
		listenerCfg.NotifyChannel = config.Feed.NotifyChannel
	}
	if config != nil && config.Feed.FallbackInterval != "" {
		d, err := time.ParseDuration(config.Feed.FallbackInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed fallback interval: %w", err)
		}
		listenerCfg.FallbackInterval = d
	}

	feedListener, err := feed.NewListener(feedRepo, publisher, listenerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create change feed listener: %w", err)
	}

	gwCfg := gateway.DefaultConfig()
	if jsCfg.URL != "" {
		gwCfg.JetStreamConfig.URL = jsCfg.URL
	}
	gwCfg.JetStreamConfig.StreamName = jsCfg.StreamName
	gatewayService, err := gateway.NewService(gwCfg, participantsRepo, controller)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway service: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return &Services{
		Meetings:     meetingsApp,
		Participants: participantsApp,
		Sessions:     sessionsRepo,
		Subjects:     subjectsApp,
		Questions:    questionsApp,
		Speaking:     controller,
		Gateway:      gatewayService,
		FeedListener: feedListener,
		JWTAuth:      auth.NewJWTAuth(jwtSecret),
	}, nil
}
