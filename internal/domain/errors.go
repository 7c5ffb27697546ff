// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyPrompt is returned when a generation request has no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyRequesterID is returned when a generation request has no requester.
	ErrEmptyRequesterID = errors.New("requester ID cannot be empty")

	// ErrMissingSettings is returned when a generation request has no settings.
	ErrMissingSettings = errors.New("generation settings are required")

	// ErrCredentialsNotConfigured is returned when the credential store holds
	// no rows at all for a requester.
	ErrCredentialsNotConfigured = errors.New("llm api credentials not configured for requester")

	// ErrNoProviders is returned when a requester has credential rows but none
	// of them belongs to a supported provider.
	ErrNoProviders = errors.New("no supported llm provider configured")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}
