package middleware

import "context"

type contextKey string

const requestIDKey contextKey = "request-id"

// RequestIDFromContext returns the correlation id attached by RequestID, or
// the empty string when the middleware is not installed.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
