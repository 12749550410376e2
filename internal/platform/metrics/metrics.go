// Package metrics exposes Prometheus metrics for the HTTP surface and for
// reminder lifecycle events.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-reminder/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reminder"

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	inFlightRequests prometheus.Gauge

	ticksTotal       *prometheus.CounterVec
	tickDuration     prometheus.Histogram
	deliveryStatus   *prometheus.CounterVec
	remindersPurged  prometheus.Counter
	remindersAdded   prometheus.Counter
	remindersDeleted prometheus.Counter
}

// New creates a Metrics instance on a fresh registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 1, 3, 10},
			},
			[]string{"method", "route"},
		),
		inFlightRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		ticksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Ticks processed, by outcome",
			},
			[]string{"outcome"},
		),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of a tick including delivery and purge",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 3, 10, 30},
		}),
		deliveryStatus: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_responses_total",
				Help:      "Webhook responses received, by HTTP status code",
			},
			[]string{"code"},
		),
		remindersPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_purged_total",
			Help:      "Reminders removed by the elapsed purge after a delivered tick",
		}),
		remindersAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_added_total",
			Help:      "Reminders accepted by task intake",
		}),
		remindersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_deleted_total",
			Help:      "Reminders removed by explicit delete requests",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and in-flight requests.
// Routes are labelled with the chi route pattern so IDs do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlightRequests.Inc()
		defer m.inFlightRequests.Dec()

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := routePattern(r)
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// HandleEvent implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeTickCompleted:
		var tick events.TickCompleted
		if err := event.UnmarshalPayload(&tick); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		m.ticksTotal.WithLabelValues(tick.Outcome).Inc()
		m.tickDuration.Observe(tick.Duration.Seconds())
		if tick.StatusCode != 0 {
			m.deliveryStatus.WithLabelValues(strconv.Itoa(tick.StatusCode)).Inc()
		}
		m.remindersPurged.Add(float64(tick.Purged))
	case events.TypeReminderAdded, events.TypeRemindersDeleted:
		var changed events.RemindersChanged
		if err := event.UnmarshalPayload(&changed); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		if event.Type == events.TypeReminderAdded {
			m.remindersAdded.Add(float64(changed.Count))
		} else {
			m.remindersDeleted.Add(float64(changed.Count))
		}
	}
	return nil
}

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
