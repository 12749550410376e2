package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-reminder/internal/config"
	"github.com/phrazzld/todo-reminder/internal/events"
	"github.com/phrazzld/todo-reminder/internal/platform/metrics"
	"github.com/phrazzld/todo-reminder/internal/service"
	"github.com/phrazzld/todo-reminder/internal/webhook"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage
	now     service.Clock

	metrics      *metrics.Metrics
	eventEmitter *events.InMemoryEventEmitter

	reminderService *service.ReminderService
	tickService     *service.TickService
}

// applicationOption customises newApplication; used by tests.
type applicationOption func(*appOptions)

type appOptions struct {
	now service.Clock
}

func withClock(now service.Clock) applicationOption {
	return func(o *appOptions) { o.now = now }
}

// newApplication wires services, metrics and events on top of storage.
func newApplication(cfg *config.Config, logger *slog.Logger, st *storage, opts ...applicationOption) (*application, error) {
	o := appOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		storage: st,
		now:     o.now,
		metrics: metrics.New(),
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(app.metrics)

	webhookClient := webhook.NewClient(webhook.Config{
		Timeout:       cfg.Webhook.Timeout(),
		EventName:     cfg.Webhook.EventName,
		Username:      cfg.Webhook.Username,
		SigningSecret: cfg.Webhook.SigningSecret,
	}, logger)

	var err error
	app.reminderService, err = service.NewReminderService(
		st.reminders,
		app.eventEmitter,
		cfg.Reminder.DefaultTime,
		app.now,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder service: %w", err)
	}

	app.tickService, err = service.NewTickService(
		st.reminders,
		webhookClient,
		app.eventEmitter,
		cfg.Webhook.DefaultURL,
		app.now,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	closeStorage(app.storage, app.logger)
	app.logger.Info("application shutdown completed")
}
