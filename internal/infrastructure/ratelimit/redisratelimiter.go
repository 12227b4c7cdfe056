package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripdesk/tripdesk/internal/shared/constants"
)

// RedisRateLimiter is a fixed-window counter shared by every instance
// pointing at the same Redis.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: constants.RedisKeyRateLimit,
		now:    time.Now,
	}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if window < time.Second {
		return Decision{}, fmt.Errorf("window %s is shorter than one second", window)
	}

	bucket, resetAt := l.bucket(window)
	redisKey := l.getKey(key, window, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment counter: %w", err)
	}

	// Set TTL on the key for the first request in this window. A second of
	// slack keeps the key alive until the window has fully elapsed.
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window+time.Second).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set counter expiry: %w", err)
		}
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string, window time.Duration) error {
	bucket, _ := l.bucket(window)
	if err := l.client.Del(ctx, l.getKey(key, window, bucket)).Err(); err != nil {
		return fmt.Errorf("failed to delete rate limit key: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) bucket(window time.Duration) (int64, time.Time) {
	seconds := int64(window / time.Second)
	bucket := l.now().Unix() / seconds
	return bucket, time.Unix((bucket+1)*seconds, 0).UTC()
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration, bucket int64) string {
	return fmt.Sprintf("%s%s:%s:%d", l.prefix, identifier, window.String(), bucket)
}
