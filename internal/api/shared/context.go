package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the API middleware.
type ContextKey string

const (
	// UserIDContextKey holds the id of the authenticated user.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the trace id returned with error responses.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a new trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// WithTraceID adds the given trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUserID stores the authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDContextKey).(int)
	return id, ok && id > 0
}
