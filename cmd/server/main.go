// Package main implements the entry point for the daily to-do reminder
// server, which stores tasks and posts a digest of today's tasks to a
// webhook whenever it is ticked.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/todo-reminder/internal/config"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/platform/migrate"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: ./config.yaml if present)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrateCmd); err != nil {
		log.Fatalf("reminder server: %v", err)
	}
}

// run loads configuration, opens storage, applies migrations and serves
// until ctx is cancelled. With migrateCmd set it only runs that migration
// command.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("default_webhook_configured", cfg.Webhook.DefaultURL != ""),
		slog.Bool("signing_enabled", cfg.Webhook.SigningSecret != ""))

	storage, err := openStorage(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeStorage(storage, l)
		return migrate.Run(ctx, storage.db, storage.dialect, storage.migrations, migrateCmd, l)
	}

	if err := migrate.Run(ctx, storage.db, storage.dialect, storage.migrations, migrate.CommandUp, l); err != nil {
		closeStorage(storage, l)
		return err
	}

	app, err := newApplication(cfg, l, storage)
	if err != nil {
		closeStorage(storage, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func loadAppConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
