package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces a per-user daily budget of chat turns using a redis
// counter keyed by day. A limit of zero or less disables enforcement.
type Limiter struct {
	rdb   *redis.Client
	limit int
}

func NewLimiter(rdb *redis.Client, limit int) *Limiter {
	return &Limiter{rdb: rdb, limit: limit}
}

// Allow increments today's counter for the user and reports whether the
// turn is within budget. Redis being unreachable fails open: chat keeps
// working without quota enforcement.
func (l *Limiter) Allow(ctx context.Context, userId uuid.UUID) bool {
	if l.limit <= 0 || l.rdb == nil {
		return true
	}

	now := time.Now()
	key := fmt.Sprintf("chat_quota:%s:%s", userId.String(), now.Format("2006-01-02"))

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}

	if count == 1 {
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		l.rdb.Expire(ctx, key, time.Until(endOfDay))
	}

	return count <= int64(l.limit)
}
