package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callLog records provider calls across goroutines.
type callLog struct {
	mu    sync.Mutex
	calls []domain.Provider
	keys  []string
}

func (l *callLog) add(p domain.Provider, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, p)
	l.keys = append(l.keys, key)
}

func (l *callLog) providers() []domain.Provider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Provider(nil), l.calls...)
}

type generateFunc func(ctx context.Context, prompt string, settings domain.GenerationSettings) (domain.GeneratedContent, error)

type stubProvider struct {
	name domain.Provider
	log  *callLog
	fn   generateFunc
}

func (s *stubProvider) Name() domain.Provider { return s.name }

func (s *stubProvider) Generate(ctx context.Context, prompt string, settings domain.GenerationSettings, apiKey string) (domain.GeneratedContent, error) {
	s.log.add(s.name, apiKey)
	return s.fn(ctx, prompt, settings)
}

func succeed(body string) generateFunc {
	return func(context.Context, string, domain.GenerationSettings) (domain.GeneratedContent, error) {
		return domain.GeneratedContent{Title: "Title", Body: body}, nil
	}
}

func fail(err error) generateFunc {
	return func(context.Context, string, domain.GenerationSettings) (domain.GeneratedContent, error) {
		return domain.GeneratedContent{}, err
	}
}

func hang() generateFunc {
	return func(ctx context.Context, _ string, _ domain.GenerationSettings) (domain.GeneratedContent, error) {
		<-ctx.Done()
		return domain.GeneratedContent{}, ctx.Err()
	}
}

func testPolicy(retries int) generation.RetryPolicy {
	return generation.RetryPolicy{Timeout: 50 * time.Millisecond, Retries: retries, Backoff: time.Millisecond}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T, log *callLog, fns map[domain.Provider]generateFunc, opts ...generation.OrchestratorOption) *generation.Orchestrator {
	t.Helper()

	regs := make([]generation.Registration, 0, len(fns))
	for _, p := range domain.Providers() {
		fn, ok := fns[p]
		if !ok {
			continue
		}
		regs = append(regs, generation.Registration{
			Provider: &stubProvider{name: p, log: log, fn: fn},
			Policy:   testPolicy(1),
		})
	}

	o, err := generation.NewOrchestrator(discardLogger(), regs, opts...)
	require.NoError(t, err)
	return o
}

func allCredentials() domain.ProviderCredentials {
	return domain.ProviderCredentials{
		domain.ProviderGroq:     "groq-key",
		domain.ProviderGemini:   "gemini-key",
		domain.ProviderRapidAPI: "rapid-key",
	}
}

func TestOrchestratorGenerate(t *testing.T) {
	t.Parallel()

	goodBody := strings.Repeat("useful words ", 5)

	t.Run("first provider success stops iteration", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:     succeed(goodBody),
			domain.ProviderGemini:   succeed(goodBody),
			domain.ProviderRapidAPI: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
		assert.Equal(t, []string{"generated", "ai"}, got.Tags)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq}, calls.providers())
		assert.Equal(t, []string{"groq-key"}, calls.keys)
	})

	t.Run("model hint reorders attempts", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGemini:   fail(errors.New("gemini down")),
			domain.ProviderRapidAPI: fail(errors.New("rapidapi down")),
		})
		creds := domain.ProviderCredentials{domain.ProviderGemini: "g", domain.ProviderRapidAPI: "r"}

		_, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p", RequestedModel: "gpt-4"}, creds)

		require.Error(t, err)
		assert.Equal(t, []domain.Provider{domain.ProviderRapidAPI, domain.ProviderGemini}, calls.providers())
	})

	t.Run("provider error falls through to the next provider", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:   fail(generation.ErrNoContent),
			domain.ProviderGemini: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq, domain.ProviderGemini}, calls.providers())
	})

	t.Run("panicking provider falls through to the next provider", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq: func(context.Context, string, domain.GenerationSettings) (domain.GeneratedContent, error) {
				panic("decoder blew up")
			},
			domain.ProviderGemini: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq, domain.ProviderGemini}, calls.providers())
	})

	t.Run("validation failure falls through to the next provider", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:   succeed("too short"),
			domain.ProviderGemini: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
	})

	t.Run("non-timeout provider error is attempted once", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq: fail(errors.New("invalid request")),
		})

		_, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"},
			domain.ProviderCredentials{domain.ProviderGroq: "k"})

		require.Error(t, err)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq}, calls.providers())
	})

	t.Run("timeouts are retried before falling through", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:   hang(),
			domain.ProviderGemini: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq, domain.ProviderGroq, domain.ProviderGemini}, calls.providers())
	})

	t.Run("all providers failing reports the last failure", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:     fail(errors.New("groq said no")),
			domain.ProviderGemini:   succeed("short"),
			domain.ProviderRapidAPI: fail(errors.New("RapidAPI error: You are not subscribed to this API.")),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		assert.Nil(t, got)
		require.ErrorIs(t, err, generation.ErrAllProvidersFailed)
		assert.ErrorIs(t, err, generation.ErrContentTooShort)
		assert.Contains(t, err.Error(), "You are not subscribed to this API.")

		var exhausted *generation.ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		require.Len(t, exhausted.Failures, 3)
		assert.Equal(t, domain.ProviderRapidAPI, exhausted.Last().Provider)
		assert.Contains(t, exhausted.Summary(), "groq: groq said no")
	})

	t.Run("gemini hint with only groq configured uses groq", func(t *testing.T) {
		calls := &callLog{}
		body := strings.Repeat("x", 150)
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq:   succeed(body),
			domain.ProviderGemini: succeed(body),
		})
		req := domain.GenerationRequest{
			Prompt: "Write a tip",
			Settings: domain.GenerationSettings{
				Tone: "casual", CreativityLevel: 50, TargetAudience: "general", ContentLength: intPtr(100),
			},
			RequestedModel: "gemini-pro",
			RequesterID:    "u1",
		}

		got, err := o.Generate(context.Background(), req, domain.ProviderCredentials{domain.ProviderGroq: "k"})

		require.NoError(t, err)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq}, calls.providers())
		n := utf8.RuneCountInString(got.Body)
		assert.GreaterOrEqual(t, n, 50)
		assert.LessOrEqual(t, n, 2000)
		assert.NotEmpty(t, got.Title)
		assert.LessOrEqual(t, len(got.Tags), domain.MaxTags)
	})

	t.Run("no usable credentials", func(t *testing.T) {
		o := newTestOrchestrator(t, &callLog{}, map[domain.Provider]generateFunc{
			domain.ProviderGroq: succeed(goodBody),
		})

		_, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, domain.ProviderCredentials{domain.ProviderGroq: ""})
		assert.ErrorIs(t, err, generation.ErrNoProviders)
	})

	t.Run("provider without adapter is skipped", func(t *testing.T) {
		calls := &callLog{}
		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderRapidAPI: succeed(goodBody),
		})

		got, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, allCredentials())

		require.NoError(t, err)
		assert.Equal(t, goodBody, got.Body)
		assert.Equal(t, []domain.Provider{domain.ProviderRapidAPI}, calls.providers())
	})

	t.Run("cancelled request stops trying providers", func(t *testing.T) {
		calls := &callLog{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		o := newTestOrchestrator(t, calls, map[domain.Provider]generateFunc{
			domain.ProviderGroq: func(ctx context.Context, _ string, _ domain.GenerationSettings) (domain.GeneratedContent, error) {
				cancel()
				return domain.GeneratedContent{}, errors.New("client went away")
			},
			domain.ProviderGemini: succeed(goodBody),
		})

		_, err := o.Generate(ctx, domain.GenerationRequest{Prompt: "p"}, allCredentials())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []domain.Provider{domain.ProviderGroq}, calls.providers())
	})
}

func TestNewOrchestratorValidation(t *testing.T) {
	t.Parallel()

	calls := &callLog{}
	groq := &stubProvider{name: domain.ProviderGroq, log: calls, fn: succeed("x")}

	t.Run("nil logger", func(t *testing.T) {
		_, err := generation.NewOrchestrator(nil, nil)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := generation.NewOrchestrator(discardLogger(), []generation.Registration{{Policy: testPolicy(0)}})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("duplicate provider", func(t *testing.T) {
		_, err := generation.NewOrchestrator(discardLogger(), []generation.Registration{
			{Provider: groq, Policy: testPolicy(0)},
			{Provider: groq, Policy: testPolicy(1)},
		})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := generation.NewOrchestrator(discardLogger(), []generation.Registration{
			{Provider: groq, Policy: generation.RetryPolicy{Timeout: 0}},
		})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	err := generation.NewAPIError(domain.ProviderGemini, 429, "Resource has been exhausted")
	assert.Equal(t, "Gemini API error: Resource has been exhausted", err.Error())
	assert.ErrorIs(t, err, generation.ErrProviderAPI)

	blank := generation.NewAPIError(domain.ProviderRapidAPI, 500, " ")
	assert.Equal(t, "RapidAPI API error: API request failed", blank.Error())

	wrapped := &generation.ExhaustedError{Failures: []*generation.ProviderError{{Provider: domain.ProviderGemini, Err: err}}}
	assert.Equal(t, "all available providers failed: Gemini API error: Resource has been exhausted", wrapped.Error())
}
