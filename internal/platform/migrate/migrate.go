// Package migrate applies the embedded goose migrations of a storage backend.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// TableName is the table goose uses to track applied migrations.
const TableName = "schema_migrations"

// Supported migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned for a command other than up, down, status or version.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose output at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose fatal output at error level without exiting.
// The error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes a migration command against db using the migrations in fsys.
// dialect must match the database/sql driver behind db.
func Run(
	ctx context.Context,
	db *sql.DB,
	dialect database.Dialect,
	fsys fs.FS,
	command string,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}

	// correlation ID ties together every log line of one migration run
	migrationLogger := logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("dialect", string(dialect)),
	)

	store, err := database.NewStore(dialect, TableName)
	if err != nil {
		return fmt.Errorf("failed to create migration store: %w", err)
	}

	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(store),
		goose.WithLogger(&slogGooseLogger{logger: migrationLogger}),
	)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	startTime := time.Now()
	migrationLogger.Info("starting migration operation")

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		logResults(migrationLogger, results)
		if err != nil {
			migrationLogger.Error("migration failed", slog.String("error", err.Error()))
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(migrationLogger, []*goose.MigrationResult{result})
		}
		if err != nil {
			migrationLogger.Error("rollback failed", slog.String("error", err.Error()))
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			migrationLogger.Info("migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)))
		}
	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}
		migrationLogger.Info("current migration version", slog.Int64("version", version))
	default:
		return fmt.Errorf("%w: %s (expected up, down, status, or version)", ErrUnknownCommand, command)
	}

	migrationLogger.Info("migration operation completed",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}

func logResults(logger *slog.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		logger.Info("migration applied",
			slog.String("direction", r.Direction),
			slog.String("path", r.Source.Path),
			slog.Int64("version", r.Source.Version),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
}
