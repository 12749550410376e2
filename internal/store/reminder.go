package store

import (
	"context"

	"github.com/phrazzld/todo-reminder/internal/domain"
)

// ReminderStore defines the interface for reminder persistence.
// Implementations return rows in insertion (id) order and commit every
// mutation before returning.
type ReminderStore interface {
	// Create inserts a new reminder and sets its ID.
	// The reminder is not re-validated.
	Create(ctx context.Context, reminder *domain.Reminder) error

	// List returns every stored reminder in insertion order.
	List(ctx context.Context) ([]domain.Reminder, error)

	// ListByDate returns the reminders scheduled for date in insertion order.
	// Returns an empty slice if there are none.
	ListByDate(ctx context.Context, date string) ([]domain.Reminder, error)

	// Delete removes a single reminder.
	// Returns ErrReminderNotFound if no row has the given ID.
	Delete(ctx context.Context, id int64) error

	// DeleteByDate removes all reminders for date and returns how many were removed.
	DeleteByDate(ctx context.Context, date string) (int64, error)

	// DeleteElapsed removes the reminders for date whose time is at or before
	// now. Rows whose time cannot be parsed are logged and kept.
	DeleteElapsed(ctx context.Context, date string, now domain.TimeOfDay) (int64, error)

	// Ping verifies the underlying storage is reachable.
	Ping(ctx context.Context) error
}

// ElapsedIDs returns the IDs of the reminders whose time is at or before now,
// and separately the reminders whose time could not be parsed.
func ElapsedIDs(reminders []domain.Reminder, now domain.TimeOfDay) (ids []int64, skipped []domain.Reminder) {
	for _, r := range reminders {
		tod, err := domain.ParseTimeOfDay(r.Time)
		if err != nil {
			skipped = append(skipped, r)
			continue
		}
		if tod.Elapsed(now) {
			ids = append(ids, r.ID)
		}
	}
	return ids, skipped
}
