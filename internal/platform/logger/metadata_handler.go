package logger

import (
	"context"
	"log/slog"
	"sort"
)

// ServiceName identifies this service in every log record.
const ServiceName = "todo-reminder"

// MetadataHandler is a slog.Handler that stamps deployment metadata
// (service, environment) onto every record before forwarding it.
type MetadataHandler struct {
	handler slog.Handler
	attrs   []slog.Attr
}

// NewMetadataHandler wraps handler, adding one string attribute per
// metadata entry. Empty values are skipped. Attributes are emitted in key order.
func NewMetadataHandler(handler slog.Handler, metadata map[string]string) *MetadataHandler {
	keys := make([]string, 0, len(metadata))
	for k, v := range metadata {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, metadata[k]))
	}

	return &MetadataHandler{handler: handler, attrs: attrs}
}

// Enabled implements slog.Handler.
func (h *MetadataHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *MetadataHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MetadataHandler{handler: h.handler.WithAttrs(attrs), attrs: h.attrs}
}

// WithGroup implements slog.Handler. Metadata added afterwards lands in the group.
func (h *MetadataHandler) WithGroup(name string) slog.Handler {
	return &MetadataHandler{handler: h.handler.WithGroup(name), attrs: h.attrs}
}

// Handle implements slog.Handler.
func (h *MetadataHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()
	enhanced.AddAttrs(h.attrs...)
	return h.handler.Handle(ctx, enhanced)
}
