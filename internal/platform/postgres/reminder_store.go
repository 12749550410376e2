package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/store"
)

const reminderEntity = "reminder"

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the ReminderStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// Create implements store.ReminderStore.Create
func (s *PostgresReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO reminders ("date", "time", task)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, reminder.Date, reminder.Time, reminder.Task).Scan(&id)
	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", err.Error()),
			slog.String("date", reminder.Date))
		return store.NewStoreError(reminderEntity, "create", "failed to insert reminder", MapError(err))
	}

	reminder.ID = id
	log.Info("reminder created",
		slog.Int64("reminder_id", id),
		slog.String("date", reminder.Date),
		slog.String("time", reminder.Time))
	return nil
}

// List implements store.ReminderStore.List
func (s *PostgresReminderStore) List(ctx context.Context) ([]domain.Reminder, error) {
	query := `
		SELECT id, "date", "time", task
		FROM reminders
		ORDER BY id ASC
	`
	return s.query(ctx, s.db, "list", query)
}

// ListByDate implements store.ReminderStore.ListByDate
func (s *PostgresReminderStore) ListByDate(ctx context.Context, date string) ([]domain.Reminder, error) {
	return s.listByDate(ctx, s.db, date)
}

func (s *PostgresReminderStore) listByDate(ctx context.Context, q store.DBTX, date string) ([]domain.Reminder, error) {
	query := `
		SELECT id, "date", "time", task
		FROM reminders
		WHERE "date" = $1
		ORDER BY id ASC
	`
	return s.query(ctx, q, "list_by_date", query, date)
}

// Delete implements store.ReminderStore.Delete
func (s *PostgresReminderStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete reminder",
			slog.String("error", err.Error()),
			slog.Int64("reminder_id", id))
		return store.NewStoreError(reminderEntity, "delete", "failed to delete reminder", MapError(err))
	}

	if err := CheckRowsAffected(result, reminderEntity); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrReminderNotFound
		}
		return store.NewStoreError(reminderEntity, "delete", "failed to delete reminder", err)
	}

	log.Debug("reminder deleted", slog.Int64("reminder_id", id))
	return nil
}

// DeleteByDate implements store.ReminderStore.DeleteByDate
func (s *PostgresReminderStore) DeleteByDate(ctx context.Context, date string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE "date" = $1`, date)
	if err != nil {
		log.Error("failed to delete reminders by date",
			slog.String("error", err.Error()),
			slog.String("date", date))
		return 0, store.NewStoreError(reminderEntity, "delete_by_date", "failed to delete reminders", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(reminderEntity, "delete_by_date", "failed to get rows affected", err)
	}

	log.Info("reminders deleted for date", slog.String("date", date), slog.Int64("count", n))
	return n, nil
}

// DeleteElapsed implements store.ReminderStore.DeleteElapsed.
// The scan and the deletes share one transaction.
func (s *PostgresReminderStore) DeleteElapsed(ctx context.Context, date string, now domain.TimeOfDay) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deleted int64
	err := store.WithinTx(ctx, s.db, func(ctx context.Context, q store.DBTX) error {
		reminders, err := s.listByDate(ctx, q, date)
		if err != nil {
			return err
		}

		ids, skipped := store.ElapsedIDs(reminders, now)
		for _, r := range skipped {
			log.Warn("skipping reminder with unparsable time",
				slog.Int64("reminder_id", r.ID),
				slog.String("date", r.Date),
				slog.String("time", r.Time))
		}
		if len(ids) == 0 {
			return nil
		}

		stmt, err := q.PrepareContext(ctx, `DELETE FROM reminders WHERE id = $1`)
		if err != nil {
			return store.NewStoreError(reminderEntity, "delete_elapsed", "failed to prepare delete", MapError(err))
		}
		defer func() { _ = stmt.Close() }()

		for _, id := range ids {
			result, err := stmt.ExecContext(ctx, id)
			if err != nil {
				return store.NewStoreError(reminderEntity, "delete_elapsed",
					fmt.Sprintf("failed to delete reminder %d", id), MapError(err))
			}
			n, err := result.RowsAffected()
			if err != nil {
				return store.NewStoreError(reminderEntity, "delete_elapsed", "failed to get rows affected", err)
			}
			deleted += n
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete elapsed reminders",
			slog.String("error", err.Error()),
			slog.String("date", date),
			slog.String("now", now.String()))
		return 0, err
	}

	log.Info("elapsed reminders deleted",
		slog.String("date", date),
		slog.String("now", now.String()),
		slog.Int64("count", deleted))
	return deleted, nil
}

// Ping implements store.ReminderStore.Ping
func (s *PostgresReminderStore) Ping(ctx context.Context) error {
	pinger, ok := s.db.(interface{ PingContext(context.Context) error })
	if !ok {
		return nil
	}
	if err := pinger.PingContext(ctx); err != nil {
		return store.NewStoreError(reminderEntity, "ping", "database unreachable", err)
	}
	return nil
}

// query runs a SELECT returning reminder rows.
func (s *PostgresReminderStore) query(
	ctx context.Context,
	q store.DBTX,
	operation string,
	query string,
	args ...any,
) ([]domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query reminders",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(reminderEntity, operation, "failed to query reminders", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	reminders, err := scanReminders(rows)
	if err != nil {
		log.Error("failed to read reminder rows",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(reminderEntity, operation, "failed to read reminders", err)
	}

	return reminders, nil
}

// scanReminders reads every row into a slice; never returns nil on success.
func scanReminders(rows *sql.Rows) ([]domain.Reminder, error) {
	reminders := make([]domain.Reminder, 0)
	for rows.Next() {
		var r domain.Reminder
		if err := rows.Scan(&r.ID, &r.Date, &r.Time, &r.Task); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}
	return reminders, nil
}
