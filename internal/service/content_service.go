package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/phrazzld/content-generator/internal/platform/logger"
	"github.com/phrazzld/content-generator/internal/store"
)

// ContentService generates content on behalf of a requester.
type ContentService interface {
	// GenerateContent validates req, resolves the requester's provider
	// credentials and returns validated content.
	//
	// Errors:
	//   - domain validation errors for an invalid request
	//   - ErrStoreNotConfigured when no credential store was supplied
	//   - ErrCredentialLookup when the store fails
	//   - domain.ErrCredentialsNotConfigured when the requester has no rows
	//   - domain.ErrNoProviders when no row names a supported provider
	//   - generator errors (*generation.ExhaustedError, context errors) unchanged
	GenerateContent(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedContent, error)
}

type contentServiceImpl struct {
	credentials store.CredentialStore
	generator   generation.Generator
	logger      *slog.Logger
}

// NewContentService creates a ContentService.
// credentials may be nil: the service still starts, and every request fails
// with ErrStoreNotConfigured. generator is required.
func NewContentService(
	credentials store.CredentialStore,
	generator generation.Generator,
	logger *slog.Logger,
) (ContentService, error) {
	if generator == nil {
		return nil, &ContentServiceError{
			Operation: "create_service",
			Message:   "generator cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &contentServiceImpl{
		credentials: credentials,
		generator:   generator,
		logger:      logger,
	}, nil
}

// GenerateContent implements ContentService.
func (s *contentServiceImpl) GenerateContent(
	ctx context.Context,
	req domain.GenerationRequest,
) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("component", "content_service")

	if err := req.Validate(); err != nil {
		log.Debug("rejected invalid generation request", slog.String("error", err.Error()))
		return nil, err
	}

	if s.credentials == nil {
		log.Error("credential store not configured")
		return nil, ErrStoreNotConfigured
	}

	rows, err := s.credentials.GetByUserID(ctx, req.RequesterID)
	if err != nil {
		log.Error("failed to fetch llm api credentials",
			slog.String("user_id", req.RequesterID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrCredentialLookup, err)
	}

	if len(rows) == 0 {
		log.Info("no llm api credentials stored", slog.String("user_id", req.RequesterID))
		return nil, domain.ErrCredentialsNotConfigured
	}

	creds := domain.NewProviderCredentials(rows)
	if len(creds.ProviderSet()) == 0 {
		log.Info("no supported llm provider among stored credentials",
			slog.String("user_id", req.RequesterID),
			slog.Int("rows", len(rows)))
		return nil, domain.ErrNoProviders
	}

	log.Debug("resolved provider credentials",
		slog.String("user_id", req.RequesterID),
		slog.Any("providers", creds))

	content, err := s.generator.Generate(ctx, req, creds)
	if err != nil {
		return nil, err
	}

	return content, nil
}
