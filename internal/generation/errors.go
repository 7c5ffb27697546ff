package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/content-generator/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrProviderAPI is returned when a provider answers with a non-success status.
	ErrProviderAPI = errors.New("provider api error")

	// ErrNoContent is returned when a successful provider response carries no text.
	ErrNoContent = errors.New("provider returned no content")

	// ErrInvalidResponse is returned when a provider response is malformed
	ErrInvalidResponse = errors.New("invalid response from provider")

	// ErrTimeout is returned when every attempt of a call hit its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrMissingFields is returned when generated content has no title or body.
	ErrMissingFields = errors.New("generated content missing required fields")

	// ErrContentTooShort is returned when the generated body is below the minimum length.
	ErrContentTooShort = errors.New("generated content too short")

	// ErrAllProvidersFailed is matched by the error returned when every provider failed.
	ErrAllProvidersFailed = errors.New("all available providers failed")

	// ErrNoProviders is returned when the orchestrator is given an empty provider set.
	ErrNoProviders = domain.ErrNoProviders

	// ErrInvalidConfig is returned when a provider or policy configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// DefaultAPIErrorMessage is used when a provider error body carries no message.
const DefaultAPIErrorMessage = "API request failed"

// APIError is a non-success answer from a provider. It matches ErrProviderAPI.
type APIError struct {
	Provider   domain.Provider
	StatusCode int
	Message    string
}

// NewAPIError creates an APIError, substituting DefaultAPIErrorMessage for an empty message.
func NewAPIError(p domain.Provider, statusCode int, message string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = DefaultAPIErrorMessage
	}
	return &APIError{Provider: p, StatusCode: statusCode, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider.DisplayName(), e.Message)
}

// Is reports whether target is ErrProviderAPI.
func (e *APIError) Is(target error) bool {
	return target == ErrProviderAPI
}

// ProviderError records the failure of a single provider.
type ProviderError struct {
	Provider domain.Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned when every provider in the priority list failed.
// Failures are kept in attempt order.
type ExhaustedError struct {
	Failures []*ProviderError
}

// Error reports the last failure, which is what callers surface to users.
func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return ErrAllProvidersFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrAllProvidersFailed, e.Last().Err)
}

// Last returns the failure of the last provider tried, or nil.
func (e *ExhaustedError) Last() *ProviderError {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1]
}

// Unwrap exposes ErrAllProvidersFailed and every provider failure to errors.Is/As.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrAllProvidersFailed)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Summary lists each provider with its failure, e.g. "groq: timeout; gemini: ...".
func (e *ExhaustedError) Summary() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return strings.Join(parts, "; ")
}
