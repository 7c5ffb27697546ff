package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyAPIKey is returned when Generate is called without a key.
	ErrEmptyAPIKey = errors.New("gemini api key cannot be empty")
)
