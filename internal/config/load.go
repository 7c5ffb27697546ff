package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CONTENTGEN_SERVER_PORT.
const EnvPrefix = "CONTENTGEN"

// setDefaults registers a default for every key. Viper only maps environment
// variables onto keys it already knows about, so every key is listed here.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("llm.retry_backoff_ms", 500)

	v.SetDefault("llm.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq.model", "llama3-8b-8192")
	v.SetDefault("llm.groq.timeout_ms", 8000)
	v.SetDefault("llm.groq.retries", 1)
	v.SetDefault("llm.groq.max_output_tokens", 1500)

	v.SetDefault("llm.gemini.base_url", "https://generativelanguage.googleapis.com/")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash-exp")
	v.SetDefault("llm.gemini.timeout_ms", 12000)
	v.SetDefault("llm.gemini.retries", 2)
	v.SetDefault("llm.gemini.max_output_tokens", 1500)

	v.SetDefault("llm.rapidapi.base_url", "https://chatgpt-42.p.rapidapi.com")
	v.SetDefault("llm.rapidapi.model", "gpt4")
	v.SetDefault("llm.rapidapi.timeout_ms", 10000)
	v.SetDefault("llm.rapidapi.retries", 1)
	v.SetDefault("llm.rapidapi.max_output_tokens", 0)

	v.SetDefault("tracing.service_name", "content-generator")
	v.SetDefault("tracing.otlp_endpoint", "")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
