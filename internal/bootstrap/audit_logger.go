package bootstrap

import "context"

// AuditLog is a single operational audit entry.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records lifecycle events that must survive in the logs even
// when the process is going down.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
