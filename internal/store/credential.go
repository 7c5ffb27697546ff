package store

import (
	"context"

	"github.com/phrazzld/content-generator/internal/domain"
)

// CredentialStore reads the LLM provider credentials owned by a requester.
type CredentialStore interface {
	// GetByUserID returns every (provider name, key) row stored for userID,
	// including rows naming providers this service does not support.
	// It returns an empty slice, not ErrNotFound, when the user has no rows.
	// Other failures wrap ErrStoreUnavailable.
	GetByUserID(ctx context.Context, userID string) ([]domain.Credential, error)
}
