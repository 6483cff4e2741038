package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speech-assessment-service/internal/app"
	"speech-assessment-service/internal/config"
	"speech-assessment-service/internal/events"
	httpapi "speech-assessment-service/internal/http"
	"speech-assessment-service/internal/observability"
	"speech-assessment-service/internal/service/engine"
	"speech-assessment-service/internal/service/engine/google"
	"speech-assessment-service/internal/service/engine/mock"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("startup failed")
	}

	// Kafka publisher with separate topics for snapshot and completed events.
	publisher := events.New(&events.Config{
		Enabled:       cfg.Kafka.Enabled,
		Brokers:       cfg.Kafka.Brokers,
		TopicSnapshot: cfg.Kafka.TopicSnapshot,
		TopicComplete: cfg.Kafka.TopicComplete,
		Principal:     cfg.Kafka.Principal,
	})
	defer publisher.Close()

	factory, err := adapterFactory(cfg)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("invalid engine configuration")
	}

	apiServer := httpapi.NewServer(factory, publisher, cfg.Engine.ShortAudioMaxMs)
	server := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      httpapi.NewRouter(apiServer),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	obsServer := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obsServer.Start()

	go func() {
		application.Logger.Info().
			Str("port", cfg.Service.HTTPPort).
			Str("engine", cfg.Engine.Provider).
			Msg("Speech assessment service started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			application.Logger.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error().Err(err).Msg("observability shutdown failed")
	}
	application.Shutdown()
}

// adapterFactory builds the per-request engine adapter constructor for the
// configured provider.
func adapterFactory(cfg *config.Configuration) (httpapi.AdapterFactory, error) {
	switch cfg.Engine.Provider {
	case "mock":
		return func(ctx context.Context) (engine.Adapter, error) {
			return mock.New(), nil
		}, nil
	case "google":
		return func(ctx context.Context) (engine.Adapter, error) {
			return google.New(ctx, cfg.Engine.LanguageCode, int32(cfg.Engine.SampleRateHz))
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Engine.Provider)
	}
}
