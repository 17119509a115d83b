package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cropwise-guidance-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/cropwise-guidance-service/internal/adapter/kafka"
	"github.com/couchcryptid/cropwise-guidance-service/internal/adapter/openweather"
	"github.com/couchcryptid/cropwise-guidance-service/internal/auth"
	"github.com/couchcryptid/cropwise-guidance-service/internal/config"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
	"github.com/couchcryptid/cropwise-guidance-service/internal/service"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	if err := st.SeedDefaultRules(context.Background()); err != nil {
		logger.Error("failed to seed crop rules", "error", err)
		os.Exit(1)
	}

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherTimeout, metrics, logger)
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY not set, weather endpoints will fail")
	}

	// Analytics mirroring is feature-flagged via KAFKA_BROKERS.
	var mirror service.EventMirror
	var writer *kafkaadapter.Writer
	if cfg.AnalyticsMirrorEnabled() {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.AnalyticsTopic, logger)
		mirror = writer
		logger.Info("analytics mirror enabled", "topic", cfg.AnalyticsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("analytics mirror disabled")
	}

	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL, nil)
	guidance := service.NewGuidance(st, weather, nil, metrics, logger)
	analytics := service.NewAnalytics(st, tokens, mirror, metrics, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.Deps{
		Store:           st,
		Guidance:        guidance,
		Analytics:       analytics,
		Tokens:          tokens,
		Metrics:         metrics,
		Logger:          logger,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
