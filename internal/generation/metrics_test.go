package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProvider struct {
	name    domain.Provider
	content domain.GeneratedContent
	err     error
}

func (f fixedProvider) Name() domain.Provider { return f.name }

func (f fixedProvider) Generate(context.Context, string, domain.GenerationSettings, string) (domain.GeneratedContent, error) {
	return f.content, f.err
}

func TestOrchestratorMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	policy := RetryPolicy{Timeout: time.Second, Backoff: time.Millisecond}

	o, err := NewOrchestrator(slog.New(slog.NewTextHandler(io.Discard, nil)), []Registration{
		{Provider: fixedProvider{name: domain.ProviderGroq, err: errors.New("down")}, Policy: policy},
		{Provider: fixedProvider{name: domain.ProviderGemini, content: domain.GeneratedContent{Title: "T", Body: "b"}}, Policy: policy},
		{Provider: fixedProvider{name: domain.ProviderRapidAPI, content: domain.GeneratedContent{Title: "T", Body: strings.Repeat("b", 40)}}, Policy: policy},
	}, WithMetrics(m))
	require.NoError(t, err)

	creds := domain.ProviderCredentials{
		domain.ProviderGroq:     "a",
		domain.ProviderGemini:   "b",
		domain.ProviderRapidAPI: "c",
	}
	_, err = o.Generate(context.Background(), domain.GenerationRequest{Prompt: "p"}, creds)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("groq", OutcomeProviderError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("gemini", OutcomeValidationError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("rapidapi", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeAttempt(domain.ProviderGroq, OutcomeSuccess, time.Second)
		m.observeRequest(OutcomeSuccess)
	})
}
