package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/todo-reminder/internal/config"
	"github.com/phrazzld/todo-reminder/internal/platform/postgres"
	"github.com/phrazzld/todo-reminder/internal/platform/sqlite"
	"github.com/phrazzld/todo-reminder/internal/store"
	"github.com/pressly/goose/v3/database"
)

// storage bundles the database handle with everything needed to migrate
// it and the reminder store built on it.
type storage struct {
	db         *sql.DB
	dialect    database.Dialect
	migrations fs.FS
	reminders  store.ReminderStore
}

// openStorage connects to the configured backend and verifies the connection.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.Driver {
	case "postgres":
		db, err := sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		logger.Info("database connection established", slog.String("driver", cfg.Driver))
		return &storage{
			db:         db,
			dialect:    database.DialectPostgres,
			migrations: postgres.Migrations(),
			reminders:  postgres.NewPostgresReminderStore(db, logger),
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}

		logger.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("path", cfg.Path))
		return &storage{
			db:         db,
			dialect:    database.DialectSQLite3,
			migrations: sqlite.Migrations(),
			reminders:  sqlite.NewReminderStore(db, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func closeStorage(s *storage, logger *slog.Logger) {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
