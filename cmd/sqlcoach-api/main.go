package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sqlcoach/sqlcoach/internal/api"
	"github.com/sqlcoach/sqlcoach/internal/api/uistatic"
	"github.com/sqlcoach/sqlcoach/internal/config"
	"github.com/sqlcoach/sqlcoach/internal/observability"
	"github.com/sqlcoach/sqlcoach/internal/provider"
	"github.com/sqlcoach/sqlcoach/internal/session"
)

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("sqlcoach-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	sess, err := session.Open(session.Config{
		Driver:  cfg.Engine.Driver,
		DSN:     cfg.Engine.DSN,
		MaxRows: cfg.Engine.MaxRows,
	})
	if err != nil {
		logger.Error("failed to open practice session", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = sess.Close() }()

	generator, coach := buildProviders(cfg, logger)

	deps := api.Dependencies{
		Logger:    logger,
		Generator: generator,
		Coach:     coach,
		Session:   sess,
		UI:        uistatic.Handler(),
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("engine", cfg.Engine.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

// buildProviders wires the configured AI backend behind the fallback
// decorators. A missing API key leaves the inner client nil, so the service
// still works end to end on canned payloads.
func buildProviders(cfg config.Config, logger *slog.Logger) (provider.Generator, provider.Coach) {
	fallbackOnly := func(reason string) (provider.Generator, provider.Coach) {
		logger.Warn("ai provider unavailable, using fallback payloads", slog.String("reason", reason))
		return &provider.FallbackGenerator{}, &provider.FallbackCoach{}
	}

	if cfg.AI.APIKey == "" {
		return fallbackOnly("api key is not configured")
	}

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		client, err := provider.NewOpenAIClient(provider.OpenAIConfig{
			BaseURL:   cfg.AI.BaseURL,
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			MaxTokens: cfg.AI.MaxTokens,
			Timeout:   cfg.AI.Timeout,
		})
		if err != nil {
			return fallbackOnly(err.Error())
		}
		return &provider.FallbackGenerator{Inner: client}, &provider.FallbackCoach{Inner: client}
	default:
		client, err := provider.NewClaudeClient(provider.ClaudeConfig{
			BaseURL:   cfg.AI.BaseURL,
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			MaxTokens: cfg.AI.MaxTokens,
			Timeout:   cfg.AI.Timeout,
		})
		if err != nil {
			return fallbackOnly(err.Error())
		}
		return &provider.FallbackGenerator{Inner: client}, &provider.FallbackCoach{Inner: client}
	}
}
