package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/content-generator/internal/config"
	"github.com/phrazzld/content-generator/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// ErrUnknownMigrationCommand is returned for a -migrate value goose is not asked to run.
var ErrUnknownMigrationCommand = errors.New("unknown migration command")

// ErrDatabaseNotConfigured is returned when migrations are requested without a database URL.
var ErrDatabaseNotConfigured = errors.New("database URL is not configured")

var migrationCommands = map[string]func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error{
	"up":      goose.Up,
	"down":    goose.Down,
	"reset":   goose.Reset,
	"status":  goose.Status,
	"version": goose.Version,
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and does not exit; main decides the exit code.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations applies command against the configured database using the
// migrations embedded in the postgres package.
func runMigrations(cfg *config.Config, logger *slog.Logger, command string, verbose bool) error {
	migrate, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}
	if cfg.Database.URL == "" {
		return ErrDatabaseNotConfigured
	}

	migrationLogger := logger.With(
		"component", "migrations",
		"correlation_id", uuid.New().String(),
		"command", command,
	)
	startTime := time.Now()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			migrationLogger.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), databasePingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configureGoose(migrationLogger, verbose); err != nil {
		return err
	}

	migrationLogger.Info("Running migration")
	if err := migrate(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

func configureGoose(logger *slog.Logger, verbose bool) error {
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(postgres.MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetVerbose(verbose)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
