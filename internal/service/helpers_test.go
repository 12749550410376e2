package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/events"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/platform/sqlite"
	"github.com/phrazzld/todo-reminder/internal/store"
	"github.com/phrazzld/todo-reminder/internal/testdb"
	"github.com/phrazzld/todo-reminder/internal/webhook"
	"github.com/stretchr/testify/require"
)

// fixedNow is 2026-10-19 12:00 UTC.
var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

const (
	today    = "2026-10-19"
	tomorrow = "2026-10-20"
)

func fixedClock() time.Time { return fixedNow }

func newSQLiteStore(t *testing.T) store.ReminderStore {
	t.Helper()
	return sqlite.NewReminderStore(testdb.NewSQLiteDB(t), logger.NewDiscardLogger())
}

func seed(t *testing.T, s store.ReminderStore, date, tm, task string) domain.Reminder {
	t.Helper()
	r := &domain.Reminder{Date: date, Time: tm, Task: task}
	require.NoError(t, s.Create(context.Background(), r))
	return *r
}

// mockReminderStore implements store.ReminderStore with overridable functions.
type mockReminderStore struct {
	CreateFn        func(ctx context.Context, reminder *domain.Reminder) error
	ListFn          func(ctx context.Context) ([]domain.Reminder, error)
	ListByDateFn    func(ctx context.Context, date string) ([]domain.Reminder, error)
	DeleteFn        func(ctx context.Context, id int64) error
	DeleteByDateFn  func(ctx context.Context, date string) (int64, error)
	DeleteElapsedFn func(ctx context.Context, date string, now domain.TimeOfDay) (int64, error)
	PingFn          func(ctx context.Context) error
}

func (m *mockReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, reminder)
	}
	return nil
}

func (m *mockReminderStore) List(ctx context.Context) ([]domain.Reminder, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []domain.Reminder{}, nil
}

func (m *mockReminderStore) ListByDate(ctx context.Context, date string) ([]domain.Reminder, error) {
	if m.ListByDateFn != nil {
		return m.ListByDateFn(ctx, date)
	}
	return []domain.Reminder{}, nil
}

func (m *mockReminderStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockReminderStore) DeleteByDate(ctx context.Context, date string) (int64, error) {
	if m.DeleteByDateFn != nil {
		return m.DeleteByDateFn(ctx, date)
	}
	return 0, nil
}

func (m *mockReminderStore) DeleteElapsed(ctx context.Context, date string, now domain.TimeOfDay) (int64, error) {
	if m.DeleteElapsedFn != nil {
		return m.DeleteElapsedFn(ctx, date, now)
	}
	return 0, nil
}

func (m *mockReminderStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

// mockDeliverer records deliveries and returns DeliverFn's result.
type mockDeliverer struct {
	DeliverFn func(ctx context.Context, endpoint, message string) (*webhook.Ack, error)

	mu        sync.Mutex
	endpoints []string
	messages  []string
}

func (m *mockDeliverer) Deliver(ctx context.Context, endpoint, message string) (*webhook.Ack, error) {
	m.mu.Lock()
	m.endpoints = append(m.endpoints, endpoint)
	m.messages = append(m.messages, message)
	m.mu.Unlock()

	if m.DeliverFn != nil {
		return m.DeliverFn(ctx, endpoint, message)
	}
	return &webhook.Ack{StatusCode: 200, EventID: "evt"}, nil
}

func (m *mockDeliverer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.endpoints)
}

// eventRecorder collects emitted events.
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func newRecordingEmitter() (*events.InMemoryEventEmitter, *eventRecorder) {
	rec := &eventRecorder{}
	emitter := events.NewInMemoryEventEmitter(logger.NewDiscardLogger())
	emitter.RegisterHandler(events.EventHandlerFunc(func(_ context.Context, e *events.Event) error {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.events = append(rec.events, e)
		return nil
	}))
	return emitter, rec
}

func (r *eventRecorder) ofType(eventType string) []*events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*events.Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
