package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sociogram/backend/pkg/database"
)

// RateLimiter implements a sliding-window log limiter on Redis, used to
// throttle the register and login endpoints per client IP.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(rdb *database.Redis) *RateLimiter {
	return &RateLimiter{redis: rdb}
}

// Allow reports whether a request under key fits the limit for the
// window. When the limit is hit it also returns how long until the
// oldest entry leaves the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	windowStart := fmt.Sprintf("%d", now.Add(-window).Unix())
	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", windowStart).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to trim rate limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	if count >= int64(limit) {
		retryAfter := window
		if oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result(); err == nil && len(oldest) > 0 {
			retryAfter = window - time.Since(time.Unix(int64(oldest[0].Score), 0))
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return false, retryAfter, nil
	}

	member := fmt.Sprintf("%d", now.UnixNano())
	if err := r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to record request: %w", err)
	}

	// Best effort: a missing expiry only means the key lingers.
	_ = r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err()

	return true, 0, nil
}

// Remaining returns the number of requests still allowed in the window.
func (r *RateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	windowStart := fmt.Sprintf("%d", time.Now().Add(-window).Unix())
	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", windowStart).Err(); err != nil {
		return 0, fmt.Errorf("failed to trim rate limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
