package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyChecker makes retried add-item requests at-most-once.
// Key format: idem:<user_id>:<idempotency_key>
type IdempotencyChecker struct {
	client *redis.Client
}

// NewIdempotencyChecker creates an IdempotencyChecker wrapping the given
// Redis client.
func NewIdempotencyChecker(client *redis.Client) *IdempotencyChecker {
	return &IdempotencyChecker{client: client}
}

// Seen reports whether this request key has already been processed for the user.
func (i *IdempotencyChecker) Seen(ctx context.Context, userID, key string) (bool, error) {
	n, err := i.client.Exists(ctx, i.key(userID, key)).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this request key has been processed (expires after idempotencyTTL).
func (i *IdempotencyChecker) Mark(ctx context.Context, userID, key string) error {
	return i.client.Set(ctx, i.key(userID, key), "1", idempotencyTTL).Err()
}

func (i *IdempotencyChecker) key(userID, key string) string {
	return fmt.Sprintf("idem:%s:%s", userID, key)
}
