package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/platform/logger"
)

// setupAppLogger configures the process-wide logger from the server settings.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{
		Level: cfg.Server.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_configured", cfg.Database.URL != "",
		"auth_enabled", cfg.Auth.JWTSecret != "",
		"tracing_exporter", cfg.Tracing.OTLPEndpoint != "")

	return l, nil
}
