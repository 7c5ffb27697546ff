package generation

import (
	"time"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt and request outcome label values.
const (
	OutcomeSuccess         = "success"
	OutcomeTimeout         = "timeout"
	OutcomeProviderError   = "provider_error"
	OutcomeValidationError = "validation_error"
	OutcomeCancelled       = "cancelled"
	OutcomeExhausted       = "exhausted"
	OutcomeNoProviders     = "no_providers"
)

// Metrics records provider attempts and request outcomes.
// A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewMetrics registers the generation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_generator_provider_attempts_total",
				Help: "Total number of provider attempts, partitioned by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "content_generator_provider_attempt_duration_seconds",
				Help:    "Duration of provider attempts including retries.",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. 32s
			},
			[]string{"provider"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_generator_requests_total",
				Help: "Total number of generation requests, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) observeAttempt(p domain.Provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.With(prometheus.Labels{"provider": p.String(), "outcome": outcome}).Inc()
	m.duration.With(prometheus.Labels{"provider": p.String()}).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRequest(outcome string) {
	if m == nil {
		return
	}
	m.requests.With(prometheus.Labels{"outcome": outcome}).Inc()
}
