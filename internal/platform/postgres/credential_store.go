package postgres

import (
	"context"
	"log/slog"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/platform/logger"
	"github.com/phrazzld/content-generator/internal/store"
)

const selectCredentialsByUserQuery = `
	SELECT api_name, api_key
	FROM llm_api_credentials
	WHERE user_id = $1
	ORDER BY id
`

// PostgresCredentialStore implements the store.CredentialStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCredentialStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCredentialStore creates a new PostgreSQL implementation of the CredentialStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCredentialStore(db store.DBTX, logger *slog.Logger) *PostgresCredentialStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCredentialStore{
		db:     db,
		logger: logger.With(slog.String("component", "credential_store")),
	}
}

// Ensure PostgresCredentialStore implements store.CredentialStore interface
var _ store.CredentialStore = (*PostgresCredentialStore)(nil)

// GetByUserID implements store.CredentialStore.GetByUserID.
// Keys are read into memory only; they are never logged.
func (s *PostgresCredentialStore) GetByUserID(
	ctx context.Context,
	userID string,
) ([]domain.Credential, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving llm api credentials", slog.String("user_id", userID))

	rows, err := s.db.QueryContext(ctx, selectCredentialsByUserQuery, userID)
	if err != nil {
		log.Error("failed to query llm api credentials",
			slog.String("error", err.Error()),
			slog.Bool("connection_error", IsConnectionError(err)),
			slog.String("user_id", userID))
		return nil, store.NewStoreError("llm_api_credential", "get_by_user_id", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close credential rows", slog.String("error", closeErr.Error()))
		}
	}()

	creds := make([]domain.Credential, 0)
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.Name, &c.Key); err != nil {
			log.Error("failed to scan llm api credential",
				slog.String("error", err.Error()),
				slog.String("user_id", userID))
			return nil, store.NewStoreError("llm_api_credential", "get_by_user_id", "scan failed", MapError(err))
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating llm api credentials",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, store.NewStoreError("llm_api_credential", "get_by_user_id", "iteration failed", MapError(err))
	}

	log.Debug("retrieved llm api credentials",
		slog.String("user_id", userID),
		slog.Int("count", len(creds)))

	return creds, nil
}
