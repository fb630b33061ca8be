package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is private so keys never collide with other packages.
type contextKey string

const (
	requestIDKey      contextKey = "request_id"
	actorKey          contextKey = "actor"
	loggerKey         contextKey = "logger"
	idempotencyKeyKey contextKey = "idempotency_key"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Actor is the authenticated caller of one request. It replaces any
// process-wide "selected user" state.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// --- Request ID ---

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// --- Actor ---

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func GetActor(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// --- Idempotency ---

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyKey, key)
}

func GetIdempotencyKey(ctx context.Context) string {
	if k, ok := ctx.Value(idempotencyKeyKey).(string); ok {
		return k
	}
	return ""
}

// --- Logger ---

// WithLogger stores a request-scoped logger, usually already decorated with
// the request id.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger never returns nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

// WithLoggerFields decorates the request logger, if one is set.
func WithLoggerFields(ctx context.Context, fields ...zap.Field) context.Context {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return WithLogger(ctx, l.With(fields...))
	}
	return ctx
}

type Metadata struct {
	RequestID string
	ActorID   string
	ActorName string
}

func ExtractMetadata(ctx context.Context) Metadata {
	md := Metadata{RequestID: GetRequestID(ctx)}
	if a, ok := GetActor(ctx); ok {
		md.ActorID = a.ID
		md.ActorName = a.Name
	}
	return md
}
