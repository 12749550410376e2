package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-reminder/internal/platform/logger"
	"github.com/phrazzld/todo-reminder/internal/redact"
)

// Defaults applied by NewClient for zero-valued Config fields.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultEventName = "Daily To-Do Reminder"
	DefaultUsername  = "ToDoBot"
)

// maxDrainBytes bounds how much of a response body is read before closing.
const maxDrainBytes = 64 << 10

// Config controls outbound delivery.
type Config struct {
	Timeout       time.Duration
	EventName     string
	Username      string
	SigningSecret string
}

// Payload is the JSON body sent to the endpoint.
type Payload struct {
	EventName string `json:"event_name"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Username  string `json:"username"`
}

// Ack describes a successful delivery.
type Ack struct {
	StatusCode int
	EventID    string
}

// Client posts digests to webhook endpoints.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
	now        func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithClock sets the clock used for signature timestamps.
func WithClock(now func() time.Time) Option {
	return func(client *Client) {
		client.now = now
	}
}

// NewClient creates a delivery client.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.EventName == "" {
		cfg.EventName = DefaultEventName
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger.With(slog.String("component", "webhook_client")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deliver makes exactly one POST of message to endpoint.
func (c *Client) Deliver(ctx context.Context, endpoint string, message string) (*Ack, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}

	body, err := json.Marshal(Payload{
		EventName: c.config.EventName,
		Message:   message,
		Status:    "success",
		Username:  c.config.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	eventID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderEventID, eventID)
	if c.config.SigningSecret != "" {
		ts := strconv.FormatInt(c.now().Unix(), 10)
		req.Header.Set(HeaderTimestamp, ts)
		req.Header.Set(HeaderSignature, SignHex(c.config.SigningSecret, ts, body))
	}

	host := req.URL.Host
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(err)
		log.Warn("webhook delivery failed",
			slog.String("event_id", eventID),
			slog.String("host", host),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", redact.Error(classified)))
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("webhook rejected delivery",
			slog.String("event_id", eventID),
			slog.String("host", host),
			slog.Int("status_code", resp.StatusCode))
		return nil, &HTTPStatusError{Code: resp.StatusCode}
	}

	log.Info("webhook delivered",
		slog.String("event_id", eventID),
		slog.String("host", host),
		slog.Int("status_code", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &Ack{StatusCode: resp.StatusCode, EventID: eventID}, nil
}

// ValidateEndpoint checks that endpoint is an absolute http or https URL.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidEndpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
