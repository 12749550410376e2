package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/redact"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	pinger Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. A nil pinger always reports OK.
func NewHealthHandler(pinger Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{pinger: pinger, logger: logger.With(slog.String("component", "health_handler"))}
}

// Health writes "OK" when storage is reachable and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	status, body := http.StatusOK, "OK"
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			log.Error("health check failed", slog.String("error", redact.Error(err)))
			status, body = http.StatusServiceUnavailable, "UNAVAILABLE"
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
