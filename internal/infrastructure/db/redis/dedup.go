package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// AuditDedupChecker provides idempotency checks for audit events backed by
// Redis. Key format: audit:<user_id>:<action>:<unix_timestamp>
type AuditDedupChecker struct {
	client *redis.Client
}

// NewAuditDedupChecker creates an AuditDedupChecker wrapping the given Redis
// client.
func NewAuditDedupChecker(client *redis.Client) *AuditDedupChecker {
	return &AuditDedupChecker{client: client}
}

// IsDuplicate reports whether this exact audit event has already been
// recorded.
func (d *AuditDedupChecker) IsDuplicate(ctx context.Context, userID, action string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(userID, action, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("audit dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been seen (expires after dedupTTL).
func (d *AuditDedupChecker) Mark(ctx context.Context, userID, action string, ts time.Time) error {
	return d.client.Set(ctx, d.key(userID, action, ts), "1", dedupTTL).Err()
}

func (d *AuditDedupChecker) key(userID, action string, ts time.Time) string {
	return fmt.Sprintf("audit:%s:%s:%d", userID, action, ts.Unix())
}
