package bootstrap

import "context"

// AuditLog is an operator-facing event, distinct from debug logging: server
// lifecycle, configuration changes, anything someone may need to reconstruct
// later.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
