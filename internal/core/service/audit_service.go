package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorny/user-api/internal/api/metrics"
	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
)

// AuditDedup abstracts the idempotency store (Redis).
type AuditDedup interface {
	IsDuplicate(ctx context.Context, userID, action string, ts time.Time) (bool, error)
	Mark(ctx context.Context, userID, action string, ts time.Time) error
}

type auditService struct {
	repo  ports.AuditRepository
	dedup AuditDedup
	log   zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, dedup AuditDedup, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Record deduplicates and persists a single audit event. Audit writes are
// best-effort from the caller's perspective; failures surface here only.
func (s *auditService) Record(ctx context.Context, in ports.AuditEventInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.UserID, in.Action, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("audit dedup check failed, recording anyway")
	} else if isDup {
		s.log.Debug().Str("user_id", in.UserID).Str("action", in.Action).Msg("duplicate audit event skipped")
		return nil
	}

	// Mark before writing so a redelivered event is not recorded twice.
	if markErr := s.dedup.Mark(ctx, in.UserID, in.Action, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("user_id", in.UserID).Msg("failed to set audit dedup key")
	}

	event := &domain.AuditEvent{
		UserID:    in.UserID,
		Email:     in.Email,
		Action:    in.Action,
		ActorID:   in.ActorID,
		Timestamp: in.Timestamp,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsRecordedTotal.WithLabelValues(in.Action).Inc()
	s.log.Debug().
		Str("user_id", in.UserID).
		Str("action", in.Action).
		Msg("audit event recorded")
	return nil
}
