package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/events"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/redact"
	"github.com/phrazzld/todo-reminder/internal/store"
)

// Clock returns the current time. Services convert it to UTC.
type Clock func() time.Time

// AddTaskInput carries a task submission. Time and Date are optional.
type AddTaskInput struct {
	Task string
	Time string
	Date string
}

// ReminderService handles task intake, listing and deletion.
type ReminderService struct {
	reminders    store.ReminderStore
	eventEmitter events.EventEmitter
	defaultTime  string
	now          Clock
	logger       *slog.Logger
}

// NewReminderService creates a ReminderService.
// defaultTime is used when a submission omits its time; now defaults to time.Now.
func NewReminderService(
	reminders store.ReminderStore,
	eventEmitter events.EventEmitter,
	defaultTime string,
	now Clock,
	logger *slog.Logger,
) (*ReminderService, error) {
	if reminders == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "reminders cannot be nil"}
	}
	if _, err := domain.ParseTimeOfDay(defaultTime); err != nil {
		return nil, &ServiceError{Operation: "create_service", Message: "invalid default time", Err: err}
	}
	if eventEmitter == nil {
		eventEmitter = events.NoopEmitter{}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReminderService{
		reminders:    reminders,
		eventEmitter: eventEmitter,
		defaultTime:  defaultTime,
		now:          now,
		logger:       logger.With(slog.String("component", "reminder_service")),
	}, nil
}

// AddTask validates and stores a new reminder.
// A missing time falls back to the configured default and a missing date to
// today (UTC). Dates before today are rejected with domain.ErrPastDate.
func (s *ReminderService) AddTask(ctx context.Context, input AddTaskInput) (*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	today := domain.Today(s.now())

	timeOfDay := strings.TrimSpace(input.Time)
	if timeOfDay == "" {
		timeOfDay = s.defaultTime
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = today
	}

	reminder, err := domain.NewReminder(date, timeOfDay, input.Task)
	if err != nil {
		log.Debug("rejected task submission", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := reminder.ValidateNotPast(today); err != nil {
		log.Debug("rejected task submission",
			slog.String("reason", err.Error()),
			slog.String("date", reminder.Date),
			slog.String("today", today))
		return nil, err
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		log.Error("failed to store reminder", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("add_task", "failed to store reminder", err)
	}

	s.emit(ctx, events.TypeReminderAdded, events.RemindersChanged{Date: reminder.Date, Count: 1})

	log.Info("task added",
		slog.Int64("reminder_id", reminder.ID),
		slog.String("date", reminder.Date),
		slog.String("time", reminder.Time))
	return reminder, nil
}

// ListToday returns today's reminders as "time - task" lines in insertion
// order. The result is empty, never nil, when nothing is scheduled today.
func (s *ReminderService) ListToday(ctx context.Context) ([]string, error) {
	today := domain.Today(s.now())

	reminders, err := s.reminders.ListByDate(ctx, today)
	if err != nil {
		return nil, NewServiceError("list_today", "failed to list reminders", err)
	}

	lines := domain.GroupByDate(reminders)[today]
	if lines == nil {
		lines = []string{}
	}
	return lines, nil
}

// ListReminders returns every stored reminder grouped by date.
func (s *ReminderService) ListReminders(ctx context.Context) (map[string][]string, error) {
	reminders, err := s.reminders.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_reminders", "failed to list reminders", err)
	}
	return domain.GroupByDate(reminders), nil
}

// DeleteTask removes a single reminder. It returns ErrReminderNotFound when
// the id does not exist.
func (s *ReminderService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.reminders.Delete(ctx, id); err != nil {
		return NewServiceError("delete_task", "failed to delete reminder", err)
	}

	s.emit(ctx, events.TypeRemindersDeleted, events.RemindersChanged{Count: 1})
	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.Int64("reminder_id", id))
	return nil
}

// ClearDate removes every reminder for date and returns how many were removed.
func (s *ReminderService) ClearDate(ctx context.Context, date string) (int64, error) {
	date = strings.TrimSpace(date)
	if _, err := domain.ParseDate(date); err != nil {
		return 0, err
	}

	n, err := s.reminders.DeleteByDate(ctx, date)
	if err != nil {
		return 0, NewServiceError("clear_date", "failed to delete reminders", err)
	}

	if n > 0 {
		s.emit(ctx, events.TypeRemindersDeleted, events.RemindersChanged{Date: date, Count: n})
	}
	return n, nil
}

// emit publishes an event. Failures are logged and never fail the operation.
func (s *ReminderService) emit(ctx context.Context, eventType string, payload any) {
	emitEvent(ctx, s.eventEmitter, logger.FromContextOrDefault(ctx, s.logger), eventType, payload)
}

func emitEvent(ctx context.Context, emitter events.EventEmitter, log *slog.Logger, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to create event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}
