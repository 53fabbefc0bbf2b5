package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultThrottleWindow = time.Minute

// MailThrottle rate-limits outbound mail per recipient, backed by Redis.
// Key format: mail:<email>
type MailThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewMailThrottle creates a MailThrottle. A non-positive window falls back to
// one minute.
func NewMailThrottle(client *redis.Client, window time.Duration) *MailThrottle {
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &MailThrottle{client: client, window: window}
}

// Allow reserves the send slot for email. SETNX makes the check and the
// reservation a single atomic operation.
func (t *MailThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("mail throttle: %w", err)
	}
	return ok, nil
}

func (t *MailThrottle) key(email string) string {
	return "mail:" + email
}
