package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConfig := databaseConfigFromEnv()
	pool, err := setupDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()

	var config *Config
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	if _, statErr := os.Stat(configPath); statErr == nil {
		config, err = loadConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
		}
	}

	services, err := setupServices(pool, dbConfig, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}

	if err := services.Meetings.LoadActive(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load active meeting")
	}

	go func() {
		if err := services.FeedListener.Start(ctx); err != nil {
			log.Error().Err(err).Msg("change feed listener stopped")
		}
	}()

	go func() {
		if err := services.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway stopped")
		}
	}()

	server := setupServer(services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down server cleanly")
	}
}
