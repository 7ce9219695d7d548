package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service is the meeting gateway: WebSocket fanout of change events plus
// the reconnect state snapshot endpoint.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	eventConsumer     *EventConsumer
	stateHandler      *StateHandler
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	JetStreamConfig  JetStreamConsumerConfig
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		JetStreamConfig:  DefaultJetStreamConsumerConfig(),
	}
}

// NewService creates a new gateway service
func NewService(config Config, participants ParticipantLister, speaking SpeakingState) (*Service, error) {
	connectionManager := NewConnectionManager(config.ConnectionConfig)
	wsHandler := NewWebSocketHandler(connectionManager)

	eventConsumer, err := NewEventConsumer(connectionManager, config.JetStreamConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         wsHandler,
		eventConsumer:     eventConsumer,
		stateHandler:      NewStateHandler(participants, speaking),
	}, nil
}

// Start begins the gateway service and blocks until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting meeting gateway service")

	go s.connectionManager.Start(ctx)

	go func() {
		if err := s.eventConsumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event consumer failed")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("meeting gateway service shutting down")
	return s.Stop()
}

// Stop gracefully shuts down the gateway service
func (s *Service) Stop() error {
	if err := s.eventConsumer.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop event consumer")
	}
	log.Info().Msg("meeting gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket and state HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("meeting gateway routes registered")
}

// BroadcastEvent allows manual event broadcasting (useful for testing)
func (s *Service) BroadcastEvent(meetingID uuid.UUID, event *Event) {
	s.connectionManager.BroadcastToMeeting(meetingID, event)
}
