package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-reminder/internal/api/shared"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/service"
)

// Ticker runs a single reminder tick.
type Ticker interface {
	Tick(ctx context.Context, returnURL string) (*service.TickResult, error)
}

// TickHandler handles POST /tick requests from the scheduler.
type TickHandler struct {
	ticker Ticker
	logger *slog.Logger
}

// NewTickHandler creates a new TickHandler
func NewTickHandler(ticker Ticker, logger *slog.Logger) *TickHandler {
	if ticker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ticker cannot be nil for TickHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TickHandler{
		ticker: ticker,
		logger: logger.With(slog.String("component", "tick_handler")),
	}
}

// Tick handles POST /tick. The body is optional. Delivery failures are
// reported with 200 and status "error"; storage failures return 500.
func (h *TickHandler) Tick(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TickRequest
	if err := shared.DecodeOptionalJSON(r, &req); err != nil {
		log.Debug("invalid tick body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.ticker.Tick(r.Context(), req.ReturnURL)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process tick")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TickResponse{
		Status: result.Status,
		Detail: result.Detail,
	})
}
