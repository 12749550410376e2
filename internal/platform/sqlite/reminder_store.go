package sqlite

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

// ReminderStore implements store.ReminderStore on a SQLite database.
type ReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ReminderStore = (*ReminderStore)(nil)

// NewReminderStore creates a SQLite-backed reminder store.
// db is usually the *sql.DB returned by Open; a *sql.Tx also works.
func NewReminderStore(db store.DBTX, logger *slog.Logger) *ReminderStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store"), slog.String("backend", "sqlite")),
	}
}

// Create inserts reminder and assigns its ID.
func (s *ReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders ("date", "time", task) VALUES (?, ?, ?)`,
		reminder.Date, reminder.Time, reminder.Task)
	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", err.Error()),
			slog.String("date", reminder.Date))
		return store.NewStoreError(reminderEntity, "create", "failed to insert reminder", MapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return store.NewStoreError(reminderEntity, "create", "failed to read inserted id", err)
	}

	reminder.ID = id
	log.Info("reminder created",
		slog.Int64("reminder_id", id),
		slog.String("date", reminder.Date),
		slog.String("time", reminder.Time))
	return nil
}

// List returns all reminders in insertion order.
func (s *ReminderStore) List(ctx context.Context) ([]domain.Reminder, error) {
	return s.query(ctx, s.db, "list",
		`SELECT id, "date", "time", task FROM reminders ORDER BY id`)
}

// ListByDate returns the reminders for date in insertion order.
func (s *ReminderStore) ListByDate(ctx context.Context, date string) ([]domain.Reminder, error) {
	return s.listByDate(ctx, s.db, date)
}

func (s *ReminderStore) listByDate(ctx context.Context, q store.DBTX, date string) ([]domain.Reminder, error) {
	return s.query(ctx, q, "list_by_date",
		`SELECT id, "date", "time", task FROM reminders WHERE "date" = ? ORDER BY id`, date)
}

// Delete removes one reminder by ID.
func (s *ReminderStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete reminder",
			slog.String("error", err.Error()),
			slog.Int64("reminder_id", id))
		return store.NewStoreError(reminderEntity, "delete", "failed to delete reminder", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError(reminderEntity, "delete", "failed to get rows affected", err)
	}
	if n == 0 {
		return store.ErrReminderNotFound
	}

	log.Debug("reminder deleted", slog.Int64("reminder_id", id))
	return nil
}

// DeleteByDate removes every reminder for date.
func (s *ReminderStore) DeleteByDate(ctx context.Context, date string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE "date" = ?`, date)
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

// DeleteElapsed removes the reminders for date whose time is at or before now.
// Times are compared numerically after parsing, so "9:05" and "09:05" agree.
func (s *ReminderStore) DeleteElapsed(ctx context.Context, date string, now domain.TimeOfDay) (int64, error) {
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
				slog.String("time", r.Time))
		}

		for _, id := range ids {
			result, err := q.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
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
			slog.String("date", date))
		return 0, err
	}

	log.Info("elapsed reminders deleted",
		slog.String("date", date),
		slog.String("now", now.String()),
		slog.Int64("count", deleted))
	return deleted, nil
}

// Ping checks the database handle when it supports pinging.
func (s *ReminderStore) Ping(ctx context.Context) error {
	if pinger, ok := s.db.(interface{ PingContext(context.Context) error }); ok {
		if err := pinger.PingContext(ctx); err != nil {
			return store.NewStoreError(reminderEntity, "ping", "database unreachable", err)
		}
	}
	return nil
}

func (s *ReminderStore) query(
	ctx context.Context,
	q store.DBTX,
	operation string,
	query string,
	args ...any,
) ([]domain.Reminder, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query reminders",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(reminderEntity, operation, "failed to query reminders", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, store.NewStoreError(reminderEntity, operation, "failed to read reminders", err)
	}
	return reminders, nil
}

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
