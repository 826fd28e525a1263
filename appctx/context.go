package appctx

import (
	"context"
)

type contextKey string

const RequestIDContextKey contextKey = "request_id"

// SetRequestID adds the request id to the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetRequestID extracts the request id from the context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	return requestID, ok
}

// RequestIDOrEmpty is GetRequestID for log attributes.
func RequestIDOrEmpty(ctx context.Context) string {
	requestID, _ := GetRequestID(ctx)
	return requestID
}
