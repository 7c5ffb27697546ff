package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrStoreNotConfigured indicates the service was started without a credential store.
	// API layer should map this to HTTP 500.
	ErrStoreNotConfigured = errors.New("credential store not configured")

	// ErrCredentialLookup indicates the credential store could not be read.
	// It wraps the underlying store error. API layer should map this to HTTP 500.
	ErrCredentialLookup = errors.New("failed to fetch llm api credentials")
)

// ContentServiceError wraps errors from the content service with context.
type ContentServiceError struct {
	// Operation is the operation that failed (e.g., "create_service")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ContentServiceError.
func (e *ContentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("content service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("content service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ContentServiceError) Unwrap() error {
	return e.Err
}
