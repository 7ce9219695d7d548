// Command watchcmd tails a meeting from a terminal: it subscribes to the
// change feed, keeps a local projection of the meeting, and redraws the
// leaderboard once a second while somebody is speaking.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/floortime/clients/floortime_api_client"
	"github.com/mcdev12/floortime/internal/liveview"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiURL := getEnv("FLOORTIME_API_URL", "http://localhost:8080")
	natsURL := getEnv("NATS_URL", nats.DefaultURL)

	client := floortime_api_client.NewFloortimeApiClient(apiURL)

	meetingID, err := resolveMeetingID(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve meeting")
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", natsURL).Msg("failed to connect to NATS")
	}
	defer nc.Close()

	presenter := liveview.NewPresenter(clockwork.NewRealClock())
	view := liveview.NewView(nc, "meeting.changes", client, presenter, meetingID)
	if err := view.Subscribe(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to change feed")
	}
	defer view.Close()

	presenter.Run(ctx, func() {
		render(view, presenter)
	})
}

func resolveMeetingID(ctx context.Context, client *floortime_api_client.FloortimeApiClient) (uuid.UUID, error) {
	if raw := os.Getenv("MEETING_ID"); raw != "" {
		return uuid.Parse(raw)
	}
	m, err := client.ActiveMeeting(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

func render(view *liveview.View, presenter *liveview.Presenter) {
	fmt.Print("\033[H\033[2J")
	for _, p := range view.Participants() {
		marker := " "
		if p.IsCurrentlySpeaking {
			marker = "*"
		}
		fmt.Printf("%s %-24s %4ds  (%d sessions)\n", marker, p.Name, presenter.DisplaySeconds(p.ID), p.SpeakingSessions)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
