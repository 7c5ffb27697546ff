package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/platform/logger"
	"github.com/phrazzld/content-generator/internal/redact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/content-generator/internal/generation"

// Registration binds a provider adapter to the policy its calls run under.
type Registration struct {
	Provider Provider
	Policy   RetryPolicy
}

// Orchestrator implements Generator by trying providers one at a time, in
// priority order, until one returns valid content.
type Orchestrator struct {
	registry map[domain.Provider]Registration
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMetrics records attempts and request outcomes on m.
func WithMetrics(m *Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) OrchestratorOption {
	return func(o *Orchestrator) { o.tracer = t }
}

// NewOrchestrator creates an Orchestrator from provider registrations.
// At most one registration per provider is allowed and every policy must be valid.
func NewOrchestrator(log *slog.Logger, registrations []Registration, opts ...OrchestratorOption) (*Orchestrator, error) {
	if log == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}

	registry := make(map[domain.Provider]Registration, len(registrations))
	for _, reg := range registrations {
		if reg.Provider == nil {
			return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
		}
		name := reg.Provider.Name()
		if _, dup := registry[name]; dup {
			return nil, fmt.Errorf("%w: provider %s registered twice", ErrInvalidConfig, name)
		}
		if err := reg.Policy.Validate(); err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		registry[name] = reg
	}

	o := &Orchestrator{
		registry: registry,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Generate implements Generator.
func (o *Orchestrator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	creds domain.ProviderCredentials,
) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, o.logger).With(slog.String("component", "generation_orchestrator"))

	set := creds.ProviderSet()
	if len(set) == 0 {
		o.metrics.observeRequest(OutcomeNoProviders)
		return nil, ErrNoProviders
	}
	order := AttemptOrder(set, req.RequestedModel)

	ctx, span := o.tracer.Start(ctx, "generation.Generate", trace.WithAttributes(
		attribute.String("generation.requested_model", req.RequestedModel),
		attribute.Int("generation.providers", len(order)),
	))
	defer span.End()

	log.Debug("starting content generation",
		slog.Any("providers", order),
		slog.String("requested_model", req.RequestedModel))

	var failures []*ProviderError
	for _, name := range order {
		reg, ok := o.registry[name]
		if !ok {
			log.Warn("no adapter registered for provider, skipping", slog.String("provider", name.String()))
			continue
		}

		content, err := o.attempt(ctx, log, reg, req, creds[name])
		if err == nil {
			o.metrics.observeRequest(OutcomeSuccess)
			span.SetAttributes(attribute.String("generation.provider", name.String()))
			log.Info("content generated", slog.String("provider", name.String()))
			return &content, nil
		}

		if ctx.Err() != nil {
			o.metrics.observeRequest(OutcomeCancelled)
			span.SetStatus(codes.Error, "request cancelled")
			log.Info("request cancelled, not trying remaining providers",
				slog.String("provider", name.String()))
			return nil, ctx.Err()
		}

		failures = append(failures, &ProviderError{Provider: name, Err: err})
	}

	o.metrics.observeRequest(OutcomeExhausted)
	exhausted := &ExhaustedError{Failures: failures}
	span.SetStatus(codes.Error, "all providers failed")
	log.Error("all providers failed",
		slog.Int("attempted", len(failures)),
		slog.String("failures", redact.String(exhausted.Summary())))
	return nil, exhausted
}

// attempt runs one provider under its policy and validates the result.
func (o *Orchestrator) attempt(
	ctx context.Context,
	log *slog.Logger,
	reg Registration,
	req domain.GenerationRequest,
	apiKey string,
) (domain.GeneratedContent, error) {
	name := reg.Provider.Name()
	ctx, span := o.tracer.Start(ctx, "generation.attempt", trace.WithAttributes(
		attribute.String("generation.provider", name.String()),
		attribute.Int64("generation.timeout_ms", reg.Policy.Timeout.Milliseconds()),
		attribute.Int("generation.retries", reg.Policy.Retries),
	))
	defer span.End()

	log.Info("attempting content generation", slog.String("provider", name.String()))
	start := time.Now()

	content, err := CallWithTimeout(ctx, reg.Policy, func(ctx context.Context) (domain.GeneratedContent, error) {
		return reg.Provider.Generate(ctx, req.Prompt, req.Settings, apiKey)
	})
	if err == nil {
		content, err = ValidateContent(content, req.Settings)
	}

	outcome := attemptOutcome(ctx, err)
	o.metrics.observeAttempt(name, outcome, time.Since(start))
	span.SetAttributes(attribute.String("generation.outcome", outcome))

	if err != nil {
		span.RecordError(errors.New(redact.Error(err)))
		span.SetStatus(codes.Error, outcome)
		log.Warn("provider failed",
			slog.String("provider", name.String()),
			slog.String("outcome", outcome),
			slog.String("error", redact.Error(err)))
		return domain.GeneratedContent{}, err
	}
	return content, nil
}

func attemptOutcome(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case ctx.Err() != nil:
		return OutcomeCancelled
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrContentTooShort):
		return OutcomeValidationError
	default:
		return OutcomeProviderError
	}
}
