package bootstrap

import "context"

// AuditLog is a process lifecycle record, not a per-request access log.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
