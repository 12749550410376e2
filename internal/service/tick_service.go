package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/events"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/redact"
	"github.com/phrazzld/todo-reminder/internal/store"
	"github.com/phrazzld/todo-reminder/internal/webhook"
)

// Tick statuses reported to the caller.
const (
	StatusSent  = "Reminder sent successfully"
	StatusError = "error"
)

// Failure details reported when delivery does not succeed.
const (
	DetailUnreachable     = "Failed to reach webhook endpoint"
	DetailTimeout         = "Timed out waiting for webhook endpoint"
	DetailInvalidEndpoint = "Invalid webhook endpoint"
	DetailNoEndpoint      = "No webhook endpoint configured"
)

// purgeTimeout bounds the post-delivery purge, which outlives caller cancellation.
const purgeTimeout = 10 * time.Second

// Deliverer sends a digest to a webhook endpoint.
type Deliverer interface {
	Deliver(ctx context.Context, endpoint string, message string) (*webhook.Ack, error)
}

// TickResult is the outcome of one tick.
type TickResult struct {
	// Status is StatusSent or StatusError
	Status string
	// Detail explains a StatusError outcome
	Detail string
	// Delivered reports whether the endpoint accepted the digest
	Delivered bool
	// Message is the digest that was composed
	Message string
	// TaskCount is the number of reminders stored for today
	TaskCount int
	// Purged is the number of elapsed reminders removed after delivery
	Purged int64
	// StatusCode is the endpoint's HTTP status, when one was received
	StatusCode int
	// Err is the delivery error behind a StatusError outcome
	Err error
}

// TickService runs the select, compose, deliver and purge cycle.
type TickService struct {
	reminders       store.ReminderStore
	deliverer       Deliverer
	eventEmitter    events.EventEmitter
	defaultEndpoint string
	now             Clock
	locks           *keyedMutex
	logger          *slog.Logger
}

// NewTickService creates a TickService.
// defaultEndpoint is used when a tick carries no return URL and may be empty.
func NewTickService(
	reminders store.ReminderStore,
	deliverer Deliverer,
	eventEmitter events.EventEmitter,
	defaultEndpoint string,
	now Clock,
	logger *slog.Logger,
) (*TickService, error) {
	if reminders == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "reminders cannot be nil"}
	}
	if deliverer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "deliverer cannot be nil"}
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

	return &TickService{
		reminders:       reminders,
		deliverer:       deliverer,
		eventEmitter:    eventEmitter,
		defaultEndpoint: strings.TrimSpace(defaultEndpoint),
		now:             now,
		locks:           newKeyedMutex(),
		logger:          logger.With(slog.String("component", "tick_service")),
	}, nil
}

// Tick sends today's digest to returnURL, or to the default endpoint when
// returnURL is empty. Elapsed reminders are purged only after the endpoint
// accepts the digest. Delivery failures are reported in the result; the
// returned error is reserved for storage failures.
func (s *TickService) Tick(ctx context.Context, returnURL string) (*TickResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()
	now := s.now().UTC()
	today := domain.Today(now)

	endpoint, err := s.resolveEndpoint(returnURL)
	if err != nil {
		log.Warn("tick skipped", slog.String("reason", err.Error()))
		result := &TickResult{Status: StatusError, Detail: DetailNoEndpoint, Err: err}
		s.emitTick(ctx, today, events.OutcomeNoEndpoint, result, start)
		return result, nil
	}

	unlock := s.locks.Lock(today)
	defer unlock()

	reminders, err := s.reminders.ListByDate(ctx, today)
	if err != nil {
		return nil, NewServiceError("tick", "failed to load today's reminders", err)
	}

	lines := domain.SelectDue(today, domain.GroupByDate(reminders))
	message := domain.ComposeDigest(lines)
	result := &TickResult{Message: message, TaskCount: len(reminders)}

	ack, err := s.deliverer.Deliver(ctx, endpoint, message)
	if err != nil {
		result.Status = StatusError
		result.Detail = deliveryDetail(err)
		result.Err = err
		if code, ok := webhook.StatusCode(err); ok {
			result.StatusCode = code
		}
		log.Warn("tick delivery failed",
			slog.String("date", today),
			slog.String("endpoint", redact.Endpoint(endpoint)),
			slog.String("detail", result.Detail),
			slog.String("error", redact.Error(err)))
		s.emitTick(ctx, today, events.OutcomeDeliveryFailed, result, start)
		return result, nil
	}

	result.Delivered = true
	result.StatusCode = ack.StatusCode

	// the endpoint has the digest; purge even if the caller has gone away
	purgeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), purgeTimeout)
	defer cancel()

	purged, err := s.reminders.DeleteElapsed(purgeCtx, today, domain.TimeOfDayOf(now))
	if err != nil {
		log.Error("digest delivered but purge failed",
			slog.String("date", today),
			slog.String("event_id", ack.EventID),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("tick", "failed to purge elapsed reminders", err)
	}

	result.Status = StatusSent
	result.Purged = purged

	log.Info("tick completed",
		slog.String("date", today),
		slog.String("event_id", ack.EventID),
		slog.Int("task_count", result.TaskCount),
		slog.Int64("purged", purged))
	s.emitTick(ctx, today, events.OutcomeDelivered, result, start)
	return result, nil
}

func (s *TickService) resolveEndpoint(returnURL string) (string, error) {
	if endpoint := strings.TrimSpace(returnURL); endpoint != "" {
		return endpoint, nil
	}
	if s.defaultEndpoint != "" {
		return s.defaultEndpoint, nil
	}
	return "", ErrNoEndpoint
}

func (s *TickService) emitTick(ctx context.Context, date, outcome string, result *TickResult, start time.Time) {
	emitEvent(ctx, s.eventEmitter, logger.FromContextOrDefault(ctx, s.logger), events.TypeTickCompleted,
		events.TickCompleted{
			Date:       date,
			Outcome:    outcome,
			TaskCount:  result.TaskCount,
			Purged:     result.Purged,
			StatusCode: result.StatusCode,
			Detail:     result.Detail,
			Duration:   time.Since(start),
		})
}

// deliveryDetail turns a delivery error into a caller-safe description.
func deliveryDetail(err error) string {
	if code, ok := webhook.StatusCode(err); ok {
		return fmt.Sprintf("Failed to send reminder: %d", code)
	}
	switch {
	case errors.Is(err, webhook.ErrTimeout):
		return DetailTimeout
	case errors.Is(err, webhook.ErrInvalidEndpoint):
		return DetailInvalidEndpoint
	default:
		return DetailUnreachable
	}
}
