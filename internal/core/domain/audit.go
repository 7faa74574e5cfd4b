package domain

import "time"

// Audit actions recorded by the auth workflows.
const (
	AuditRegister     = "user.registered"
	AuditLogin        = "user.login"
	AuditTokenRefresh = "token.refreshed"
	AuditLogout       = "user.logout"
	AuditRolesUpdated = "roles.updated"
	AuditUserDeleted  = "user.deleted"
)

// AuditEvent is one entry in the auth audit trail. Events are written
// asynchronously and never carry secrets, only identifiers and the action.
type AuditEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
