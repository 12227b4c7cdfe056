package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	for i := 0; i < 5; i++ {
		decision, err := limiter.Allow(ctx, key, 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 4-i, decision.Remaining)
	}

	decision, err := limiter.Allow(ctx, key, 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "6th request should be denied")
	assert.Zero(t, decision.Remaining)

	require.NoError(t, limiter.Reset(ctx, key, time.Hour))
	decision, err = limiter.Allow(ctx, key, 5, time.Hour)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	a, b := "a-"+uuid.NewString(), "b-"+uuid.NewString()
	_, err := limiter.Allow(ctx, a, 1, time.Minute)
	require.NoError(t, err)

	decision, err := limiter.Allow(ctx, b, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestRedisRateLimiter_SetsExpiry(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	key := "ttl-" + uuid.NewString()

	_, err := limiter.Allow(ctx, key, 10, 30*time.Second)
	require.NoError(t, err)

	bucket, _ := limiter.bucket(30 * time.Second)
	ttl, err := client.TTL(ctx, limiter.getKey(key, 30*time.Second, bucket)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 31*time.Second)
}

func TestBucketResetTime(t *testing.T) {
	limiter := NewRedisRateLimiter(nil)
	limiter.now = func() time.Time { return time.Unix(125, 0) }

	bucket, resetAt := limiter.bucket(time.Minute)
	assert.Equal(t, int64(2), bucket)
	assert.Equal(t, time.Unix(180, 0).UTC(), resetAt)
}

func TestAllowRejectsSubSecondWindow(t *testing.T) {
	_, err := NewRedisRateLimiter(nil).Allow(context.Background(), "k", 1, time.Millisecond)
	assert.Error(t, err)
}
