package ports

import (
	"context"
	"time"

	"github.com/mentorny/user-api/internal/core/domain"
)

// AuditEventInput is the unit of work flowing through the audit dispatcher.
type AuditEventInput struct {
	UserID    string
	Email     string
	Action    string
	ActorID   string
	Timestamp time.Time
}

// AuditService records audit events durably.
type AuditService interface {
	Record(ctx context.Context, in AuditEventInput) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	FindByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEvent, error)
}

// AuditRecorder is the fire-and-forget side used by the core services; the
// queue dispatcher implements it.
type AuditRecorder interface {
	Enqueue(event AuditEventInput)
}
