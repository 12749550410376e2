package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-reminder/internal/api/shared"
	"github.com/phrazzld/todo-reminder/internal/domain"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/service"
)

// TaskAddedMessage confirms a stored task.
const TaskAddedMessage = "Task added successfully!"

// ReminderService is the subset of service.ReminderService used by the handler.
type ReminderService interface {
	AddTask(ctx context.Context, input service.AddTaskInput) (*domain.Reminder, error)
	ListToday(ctx context.Context) ([]string, error)
	ListReminders(ctx context.Context) (map[string][]string, error)
	DeleteTask(ctx context.Context, id int64) error
	ClearDate(ctx context.Context, date string) (int64, error)
}

// ReminderHandler handles task intake, listing and deletion.
type ReminderHandler struct {
	reminders ReminderService
	logger    *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminders ReminderService, logger *slog.Logger) *ReminderHandler {
	if reminders == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reminders cannot be nil for ReminderHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReminderHandler{
		reminders: reminders,
		logger:    logger.With(slog.String("component", "reminder_handler")),
	}
}

// AddTask handles POST /add-task requests.
func (h *ReminderHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AddTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid add-task body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	reminder, err := h.reminders.AddTask(r.Context(), service.AddTaskInput{
		Task: req.Task,
		Time: req.Time,
		Date: req.Date,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AddTaskResponse{
		Message: TaskAddedMessage,
		ID:      reminder.ID,
		Date:    reminder.Date,
		Time:    reminder.Time,
		Task:    reminder.Task,
	})
}

// ListTasks handles GET /list-tasks requests with today's reminders.
func (h *ReminderHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.reminders.ListToday(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TasksResponse{Tasks: tasks})
}

// ListReminders handles GET /tasks requests with every reminder grouped by date.
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.reminders.ListReminders(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RemindersResponse{Reminders: grouped})
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *ReminderHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reminders.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeletedResponse{Deleted: 1})
}

// ClearDate handles DELETE /tasks?date=YYYY-MM-DD requests.
func (h *ReminderHandler) ClearDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date: required field")
		return
	}

	n, err := h.reminders.ClearDate(r.Context(), date)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeletedResponse{Deleted: n})
}
