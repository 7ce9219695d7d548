package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ListenerConfig configures the LISTEN/NOTIFY relay.
type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to sweep for missed events
	MaxRetries       int
	RetryDelay       time.Duration
	PingInterval     time.Duration
	BatchSize        int32 // Max events to fetch per sweep
}

// DefaultListenerConfig returns default listener configuration.
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		DatabaseURL:      "",
		NotifyChannel:    NotifyChannel,
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
	}
}

// EventRepository defines what the listener needs from the outbox.
type EventRepository interface {
	FetchByID(ctx context.Context, id uuid.UUID) (*ChangeEvent, error)
	FetchUnsent(ctx context.Context, limit int32) ([]ChangeEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}

// Publisher hands change events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Listener relays change_events rows to the publisher. The Postgres
// triggers NOTIFY with the event id; a fallback sweep picks up anything a
// dropped connection missed.
type Listener struct {
	repo      EventRepository
	listener  *pq.Listener
	publisher Publisher
	cfg       ListenerConfig
}

// NewListener opens a LISTEN connection and returns the relay.
func NewListener(repo EventRepository, publisher Publisher, cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().Str("channel", cfg.NotifyChannel).Msg("listening for change notifications")

	return &Listener{
		repo:      repo,
		listener:  l,
		publisher: publisher,
		cfg:       cfg,
	}, nil
}

// Start runs the relay loop until the context is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	log.Info().
		Str("channel", l.cfg.NotifyChannel).
		Dur("ping_interval", l.cfg.PingInterval).
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Msg("change feed listener started")

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("change feed listener shutting down")
			return l.Stop()
		case note := <-l.listener.Notify:
			if note == nil {
				// nil notification means the connection was lost; pq reconnects
				continue
			}
			if err := l.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.C:
			if err := l.processUnsent(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process unsent events")
			}
		case <-pingTicker.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

// Stop closes the LISTEN connection.
func (l *Listener) Stop() error {
	return l.listener.Close()
}

// handleNotification fetches the change event named by the NOTIFY payload,
// publishes it, and marks it sent.
func (l *Listener) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	event, err := l.repo.FetchByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch change event: %w", err)
	}

	if err := l.publishWithRetry(ctx, *event); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	if err := l.repo.MarkSent(ctx, id); err != nil {
		log.Error().Err(err).Str("event_id", id.String()).Msg("failed to mark change event as sent")
		return err
	}
	return nil
}

// processUnsent sweeps events the NOTIFY path missed.
func (l *Listener) processUnsent(ctx context.Context) error {
	unsent, err := l.repo.FetchUnsent(ctx, l.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch unsent change events: %w", err)
	}

	for _, event := range unsent {
		if err := l.publishWithRetry(ctx, event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to publish change event")
			continue
		}
		if err := l.repo.MarkSent(ctx, event.ID); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to mark change event as sent")
			continue
		}
	}
	return nil
}

// publishWithRetry attempts a publish with linear backoff.
func (l *Listener) publishWithRetry(ctx context.Context, event ChangeEvent) error {
	var lastErr error

	for attempt := 0; attempt <= l.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := l.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := l.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Error().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", l.cfg.MaxRetries+1, lastErr)
}
