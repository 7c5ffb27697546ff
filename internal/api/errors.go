package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/content-generator/internal/api/shared"
	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/phrazzld/content-generator/internal/generation"
	"github.com/phrazzld/content-generator/internal/redact"
	"github.com/phrazzld/content-generator/internal/service"
	"github.com/phrazzld/content-generator/internal/service/auth"
)

// Request errors raised by the handlers themselves.
var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON input")

	// ErrMissingFields is returned when prompt, settings or userId is absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrSubjectMismatch is returned when an authenticated caller asks on behalf of another user.
	ErrSubjectMismatch = errors.New("user id does not match authenticated subject")
)

// User-facing messages.
const (
	MsgInvalidJSON            = "Invalid JSON input"
	MsgMissingFields          = "Missing required fields: prompt, settings, or userId"
	MsgCredentialsMissing     = "LLM API keys not configured for user. Please set up your AI API keys in the platform settings."
	MsgNoProviders            = "No LLM API keys configured. Please set up at least one AI API key."
	MsgServerMisconfiguration = "Server misconfiguration"
	MsgCredentialLookupFailed = "Failed to fetch API configuration from database"
	MsgAllProvidersFailed     = "All available LLMs failed"
	MsgSubjectMismatch        = "User ID does not match authenticated user"
	MsgRequestTimedOut        = "Request timed out"
	MsgInvalidToken           = "Invalid token"
	MsgUnexpected             = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Provider exhaustion wraps arbitrary provider failures; match it first
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, ErrSubjectMismatch):
		return http.StatusForbidden

	// Bad request errors
	case errors.Is(err, ErrInvalidJSON),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrEmptyRequesterID),
		errors.Is(err, domain.ErrMissingSettings),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrCredentialsNotConfigured),
		errors.Is(err, domain.ErrNoProviders),
		isValidatorError(err):
		return http.StatusBadRequest

	// Store failures stay server errors even when the cause was a deadline
	case errors.Is(err, service.ErrCredentialLookup),
		errors.Is(err, service.ErrStoreNotConfigured):
		return http.StatusInternalServerError

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Everything else, including store and provider exhaustion, is a server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Provider text is redacted before it is echoed.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var exhausted *generation.ExhaustedError

	switch {
	case errors.As(err, &exhausted):
		if last := exhausted.Last(); last != nil && last.Err != nil {
			return fmt.Sprintf("%s: %s", MsgAllProvidersFailed, redact.String(last.Err.Error()))
		}
		return MsgAllProvidersFailed
	case errors.Is(err, generation.ErrAllProvidersFailed):
		return MsgAllProvidersFailed

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return MsgInvalidToken

	case errors.Is(err, ErrSubjectMismatch):
		return MsgSubjectMismatch

	case errors.Is(err, ErrInvalidJSON):
		return MsgInvalidJSON
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrEmptyRequesterID),
		errors.Is(err, domain.ErrMissingSettings):
		return MsgMissingFields
	case errors.Is(err, domain.ErrValidation), isValidatorError(err):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrCredentialsNotConfigured):
		return MsgCredentialsMissing
	case errors.Is(err, domain.ErrNoProviders):
		return MsgNoProviders

	case errors.Is(err, service.ErrStoreNotConfigured):
		return MsgServerMisconfiguration
	case errors.Is(err, service.ErrCredentialLookup):
		return MsgCredentialLookupFailed

	case errors.Is(err, context.DeadlineExceeded):
		return MsgRequestTimedOut

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. A non-empty message overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}

// SanitizeValidationError turns a validation failure into "Invalid <field>: <reason>".
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag(), fe.Param()))
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "must be at least " + param
	case "max", "lte":
		return "must be at most " + param
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func isValidatorError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}
