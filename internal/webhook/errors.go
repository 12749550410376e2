package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint is returned when the endpoint is not an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint")

	// ErrUnreachable is returned when the endpoint could not be contacted.
	ErrUnreachable = errors.New("webhook endpoint unreachable")

	// ErrTimeout is returned when the delivery deadline elapses before a response.
	ErrTimeout = errors.New("webhook delivery timed out")
)

// HTTPStatusError is returned when the endpoint answers with a non-2xx status.
type HTTPStatusError struct {
	Code int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.Code)
}

// StatusCode extracts the HTTP status code from err if it wraps an *HTTPStatusError.
func StatusCode(err error) (int, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}
	return 0, false
}
