package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// New creates a limiter. With no Redis configured it falls back to an
// in-process limiter, which is good enough for a single instance.
func New(cfg config.RedisConfig) Limiter {
	if cfg.URL == "" {
		logger.Info("REDIS_URL not set; using in-process rate limiter")
		return NewLocalLimiter(cfg.RequestsPerMinute)
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Error("Invalid REDIS_URL; using in-process rate limiter", "error", err)
		return NewLocalLimiter(cfg.RequestsPerMinute)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	return NewRedisLimiter(redis.NewClient(opts), cfg.RequestsPerMinute)
}

// RedisLimiter implements a fixed one-minute window shared across instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
}

// NewRedisLimiter creates a Redis-backed limiter allowing limit requests per minute
func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit}
}

// Allow increments the caller's counter for the current window. Redis
// failures fail open: throttling is protection, not a correctness guarantee.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().UTC().Unix()/60)

	n, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		logger.Warn("Rate limit check failed; allowing request", "error", err)
		return true, err
	}
	if n == 1 {
		l.client.Expire(ctx, bucket, 2*time.Minute)
	}

	return n <= int64(l.limit), nil
}

// LocalLimiter implements per-key token buckets in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rpm      int
}

// NewLocalLimiter creates an in-process limiter allowing rpm requests per minute
func NewLocalLimiter(rpm int) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rpm:      rpm,
	}
}

// Allow consumes one token from the caller's bucket
func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.rpm)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	return lim.Allow(), nil
}
