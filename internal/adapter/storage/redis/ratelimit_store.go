package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ConnectionRateLimiter caps how many connections one remote host may open
// per window. It implements ports.ConnectionLimiter.
type ConnectionRateLimiter struct {
	client *goredis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewConnectionRateLimiter(client *goredis.Client, limit int, window time.Duration) *ConnectionRateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &ConnectionRateLimiter{
		client: client,
		prefix: "atm:conn:",
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one connection attempt from key in the current fixed window
// (INCR + EXPIRE) and reports whether it is within the limit.
func (l *ConnectionRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowID := time.Now().Unix() / int64(l.window.Seconds())
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, windowID)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis rate limit incr: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window+time.Second).Err(); err != nil {
			return false, fmt.Errorf("redis rate limit expire: %w", err)
		}
	}

	return count <= l.limit, nil
}
