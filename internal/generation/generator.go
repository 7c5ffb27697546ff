package generation

import (
	"context"

	"github.com/phrazzld/content-generator/internal/domain"
)

// Generator defines the interface for generating content from a request.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// Generate produces validated content for req using the requester's
	// provider credentials. It returns an error wrapping ErrNoProviders when
	// creds holds no usable provider and an *ExhaustedError when every
	// provider failed.
	Generate(ctx context.Context, req domain.GenerationRequest, creds domain.ProviderCredentials) (*domain.GeneratedContent, error)
}

// Provider wraps a single external LLM service.
//
// Generate builds the provider request from prompt and settings, calls the
// provider with apiKey and returns the parsed (not yet validated) content.
// Implementations must honour ctx cancellation.
type Provider interface {
	Name() domain.Provider
	Generate(ctx context.Context, prompt string, settings domain.GenerationSettings, apiKey string) (domain.GeneratedContent, error)
}
