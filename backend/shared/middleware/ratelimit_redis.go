package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window counter kept in Redis, shared by all replicas.
type RateLimiter struct {
	Redis  redis.Cmdable
	Prefix string
	Limit  int // requests per window
	Window time.Duration
	Log    *zap.SugaredLogger
}

func NewRateLimiter(r redis.Cmdable, prefix string, limit int, window time.Duration, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, Log: log}
}

// Allow increments the counter for key and reports whether it is still within Limit.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	redisKey := fmt.Sprintf("%s:%s", r.Prefix, key)
	count, err := r.Redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := r.Redis.Expire(ctx, redisKey, r.Window).Err(); err != nil {
			return false, count, err
		}
	}
	return count <= int64(r.Limit), count, nil
}

// MiddlewareByKey limits requests grouped by keyFunc. Redis failures let the
// request through so an outage of the limiter does not take the API down.
func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := keyFunc(c)
		ok, count, err := r.Allow(c.UserContext(), key)
		if err != nil {
			if r.Log != nil {
				r.Log.Warnw("rate limiter unavailable", "key", key, "error", err)
			}
			return c.Next()
		}
		remaining := int64(r.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}

// ByIPAndPath keys the limiter on client ip and route path.
func ByIPAndPath(c *fiber.Ctx) string {
	return clientIP(c) + ":" + c.Path()
}
