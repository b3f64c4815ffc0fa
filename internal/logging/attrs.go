package logging

import (
	"context"
	"log/slog"
)

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldIdentity  = "identity"
	FieldClip      = "clip"
	FieldKind      = "kind"
	FieldStatus    = "status"
	FieldDuration  = "duration"
)

// Error wraps an error as a log attribute, tolerating nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// WithComponent returns a logger carrying a standardized component attribute.
// A nil base falls back to a no-op logger.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (noopHandler) Handle(context.Context, slog.Record) error { return nil }
func (noopHandler) WithAttrs([]slog.Attr) slog.Handler        { return noopHandler{} }
func (noopHandler) WithGroup(string) slog.Handler             { return noopHandler{} }
