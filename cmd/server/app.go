package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/phrazzld/content-generator/internal/platform/gemini"
	"github.com/phrazzld/content-generator/internal/platform/groq"
	"github.com/phrazzld/content-generator/internal/platform/postgres"
	"github.com/phrazzld/content-generator/internal/platform/rapidapi"
	"github.com/phrazzld/content-generator/internal/platform/tracing"
	"github.com/phrazzld/content-generator/internal/service"
	"github.com/phrazzld/content-generator/internal/service/auth"
	"github.com/phrazzld/content-generator/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// application holds the wired dependencies of the server process.
type application struct {
	config         *config.Config
	logger         *slog.Logger
	db             *sql.DB
	registry       *prometheus.Registry
	tracer         trace.Tracer
	contentService service.ContentService
	// jwtService is nil when no signing secret is configured.
	jwtService auth.JWTService

	shutdownTracing tracing.ShutdownFunc
}

// newApplication wires the application from configuration. Resources acquired
// before a failure are released before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: newMetricsRegistry(),
	}

	tp, shutdown, err := tracing.Setup(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	app.shutdownTracing = shutdown
	app.tracer = tp.Tracer("github.com/phrazzld/content-generator/cmd/server")

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.db = db

	if err := app.initServices(tp); err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}

// initServices builds the provider adapters, the orchestrator and the content service.
func (app *application) initServices(tp *sdktrace.TracerProvider) error {
	registrations, err := buildRegistrations(app.config, app.logger, &http.Client{})
	if err != nil {
		return err
	}

	orchestrator, err := generation.NewOrchestrator(
		app.logger,
		registrations,
		generation.WithMetrics(generation.NewMetrics(app.registry)),
		generation.WithTracer(tp.Tracer("github.com/phrazzld/content-generator/internal/generation")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	var credentials store.CredentialStore
	if app.db != nil {
		credentials = postgres.NewPostgresCredentialStore(app.db, app.logger)
	}

	app.contentService, err = service.NewContentService(credentials, orchestrator, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create content service: %w", err)
	}

	if app.config.Auth.JWTSecret != "" {
		app.jwtService, err = auth.NewJWTService(app.config.Auth)
		if err != nil {
			return fmt.Errorf("failed to create JWT service: %w", err)
		}
	}

	return nil
}

// buildRegistrations creates one registration per provider, each with the
// timeout and retry budget from its own configuration section.
func buildRegistrations(
	cfg *config.Config,
	logger *slog.Logger,
	httpClient *http.Client,
) ([]generation.Registration, error) {
	groqClient, err := groq.NewClient(logger, cfg.LLM.Groq, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create groq client: %w", err)
	}

	geminiGenerator, err := gemini.NewGeminiGenerator(logger, cfg.LLM.Gemini, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini generator: %w", err)
	}

	rapidClient, err := rapidapi.NewClient(logger, cfg.LLM.RapidAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to create rapidapi client: %w", err)
	}

	backoff := cfg.LLM.RetryBackoff()
	policy := func(p config.ProviderConfig) generation.RetryPolicy {
		return generation.RetryPolicy{
			Timeout: p.Timeout(),
			Retries: p.Retries,
			Backoff: backoff,
		}
	}

	return []generation.Registration{
		{Provider: groqClient, Policy: policy(cfg.LLM.Groq)},
		{Provider: geminiGenerator, Policy: policy(cfg.LLM.Gemini)},
		{Provider: rapidClient, Policy: policy(cfg.LLM.RapidAPI)},
	}, nil
}

func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// cleanup releases the database and flushes pending spans. Safe to call more than once.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		} else {
			app.logger.Info("Database connection closed")
		}
		app.db = nil
	}

	if app.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout())
		defer cancel()
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("Failed to shut down tracing", "error", err)
		}
		app.shutdownTracing = nil
	}
}
