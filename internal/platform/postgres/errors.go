package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/content-generator/internal/store"
)

// PostgreSQL error codes
const (
	// undefinedTableCode is returned when the credentials table has not been migrated
	undefinedTableCode = "42P01"

	// insufficientPrivilegeCode is returned when the service role cannot read the table
	insufficientPrivilegeCode = "42501"

	// connectionExceptionClass prefixes every connection failure code (08xxx)
	connectionExceptionClass = "08"
)

// MapError maps a database error to an appropriate store error.
// sql.ErrNoRows becomes store.ErrNotFound. Context cancellation is returned
// unchanged so callers can tell it apart from an outage. Everything else is
// wrapped with store.ErrStoreUnavailable.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == undefinedTableCode:
			return fmt.Errorf("%w: table %s does not exist", store.ErrStoreUnavailable, pgErr.TableName)
		case pgErr.Code == insufficientPrivilegeCode:
			return fmt.Errorf("%w: insufficient privilege", store.ErrStoreUnavailable)
		case strings.HasPrefix(pgErr.Code, connectionExceptionClass):
			return fmt.Errorf("%w: connection exception (%s)", store.ErrStoreUnavailable, pgErr.Code)
		}
	}

	return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
}

// IsConnectionError reports whether err is a PostgreSQL connection exception.
func IsConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, connectionExceptionClass)
}
