package http

import (
	"context"
	"log/slog"
)

type schemeKey struct{}
type requestIDKey struct{}
type loggerKey struct{}

// WithScheme returns a derived context recording the external URL scheme
// reported by a reverse proxy.
func WithScheme(ctx context.Context, scheme string) context.Context {
	return context.WithValue(ctx, schemeKey{}, scheme)
}

// SchemeFromContext extracts the external scheme from context if available.
func SchemeFromContext(ctx context.Context) (string, bool) {
	scheme, ok := ctx.Value(schemeKey{}).(string)
	return scheme, ok
}

// WithRequestID returns a derived context carrying the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request id from context if available.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// WithLogger returns a derived context carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the request-scoped logger, or slog.Default()
// when none was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
