package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"amora_backend/internal/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// SwipeLimiter ограничивает темп свайпов на пользователя. Превышение -
// не ошибка протокола, а сигнал клиенту подождать retryAfterSec секунд.
type SwipeLimiter interface {
	AllowSwipe(ctx context.Context, userID string) (retryAfterSec int, allowed bool)
}

type window struct {
	label    string
	duration time.Duration
	limit    int
}

// RedisSwipeLimiter - fixed-window счетчики в Redis (INCR + EXPIRE),
// общие для всех инстансов приложения. При недоступности Redis лимитер
// пропускает запрос: лимит защищает от абьюза, а не от потери данных.
type RedisSwipeLimiter struct {
	client  *redis.Client
	windows []window
}

func NewRedisSwipeLimiter(client *redis.Client, perMinute, per10Sec int) *RedisSwipeLimiter {
	return &RedisSwipeLimiter{
		client: client,
		windows: []window{
			{label: "10s", duration: 10 * time.Second, limit: per10Sec},
			{label: "1m", duration: time.Minute, limit: perMinute},
		},
	}
}

func (l *RedisSwipeLimiter) AllowSwipe(ctx context.Context, userID string) (int, bool) {
	now := time.Now()
	for _, w := range l.windows {
		bucket := now.Unix() / int64(w.duration.Seconds())
		key := fmt.Sprintf("rl:swipe:%s:%s:%d", w.label, userID, bucket)

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			logger.CtxWarn(ctx, "rate limiter unavailable, allowing request", "error", err)
			return 0, true
		}
		if count == 1 {
			l.client.Expire(ctx, key, w.duration)
		}
		if count > int64(w.limit) {
			ttl, err := l.client.TTL(ctx, key).Result()
			if err != nil || ttl <= 0 {
				ttl = w.duration
			}
			return int(math.Ceil(ttl.Seconds())), false
		}
	}
	return 0, true
}

// MemorySwipeLimiter - token bucket на инстанс (golang.org/x/time/rate).
// Подходит для dev и single-node, не для горизонтального масштабирования.
type MemorySwipeLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewMemorySwipeLimiter(perMinute, burst int) *MemorySwipeLimiter {
	return &MemorySwipeLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *MemorySwipeLimiter) limiterFor(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[userID] = lim
	}
	return lim
}

func (l *MemorySwipeLimiter) AllowSwipe(ctx context.Context, userID string) (int, bool) {
	lim := l.limiterFor(userID)
	reservation := lim.Reserve()
	if !reservation.OK() {
		return 1, false
	}
	delay := reservation.Delay()
	if delay > 0 {
		reservation.Cancel()
		return int(math.Ceil(delay.Seconds())), false
	}
	return 0, true
}
