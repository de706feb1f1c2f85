package requestctx

import (
	"context"

	"hrrecords/internal/domain/identity"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	callerKey    ctxKey = "caller"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller returns the resolved caller, or the anonymous zero Caller.
func GetCaller(ctx context.Context) identity.Caller {
	if caller, ok := ctx.Value(callerKey).(identity.Caller); ok {
		return caller
	}
	return identity.Caller{}
}
