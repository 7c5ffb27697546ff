package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains the credential store connection settings.
// An empty URL leaves the credential store unconfigured; generation requests
// then fail with a server misconfiguration error.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains bearer token verification settings.
// An empty JWTSecret disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// LLMConfig contains all LLM provider settings.
type LLMConfig struct {
	// RetryBackoffMs is the fixed pause between timed-out attempts.
	RetryBackoffMs int            `mapstructure:"retry_backoff_ms" validate:"gt=0"`
	Groq           ProviderConfig `mapstructure:"groq" validate:"required"`
	Gemini         ProviderConfig `mapstructure:"gemini" validate:"required"`
	RapidAPI       ProviderConfig `mapstructure:"rapidapi" validate:"required"`
}

// ProviderConfig is the fixed framing of a single provider.
type ProviderConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	Model           string `mapstructure:"model"`
	TimeoutMs       int    `mapstructure:"timeout_ms" validate:"gt=0"`
	Retries         int    `mapstructure:"retries" validate:"gte=0,lte=10"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens" validate:"gte=0"`
}

// Timeout returns the per-attempt deadline.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// RetryBackoff returns the pause between timed-out attempts.
func (l LLMConfig) RetryBackoff() time.Duration {
	return time.Duration(l.RetryBackoffMs) * time.Millisecond
}

// TracingConfig configures OpenTelemetry export.
// With no endpoint spans are still created but never exported.
type TracingConfig struct {
	ServiceName  string `mapstructure:"service_name" validate:"required"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}
