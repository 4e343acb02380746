package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed sign-in attempts per username in Redis.
// Key format: signin_fail:<username>, expiring after the configured window.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
// Non-positive limits fall back to defaults.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether the username is still under the failure limit.
func (t *LoginThrottle) Allow(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// RecordFailure counts one failed attempt. The window starts at the first
// failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	key := t.key(username)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure count after a successful sign-in.
func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(username string) string {
	return "signin_fail:" + username
}
