package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupTTL bounds how long a processed status is remembered. The provider
// retries webhooks for at most a day.
const DedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for webhook status events.
// Key format: dedup:wa:<message_id>:<status>
type DedupChecker struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client redis.Cmdable) *DedupChecker {
	return &DedupChecker{client: client, ttl: DedupTTL}
}

// IsDuplicate reports whether this status was already applied to the message.
func (d *DedupChecker) IsDuplicate(ctx context.Context, messageID, status string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(messageID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this status has been applied (expires after DedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, messageID, status string) error {
	if err := d.client.Set(ctx, dedupKey(messageID, status), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func dedupKey(messageID, status string) string {
	return fmt.Sprintf("dedup:wa:%s:%s", messageID, status)
}
