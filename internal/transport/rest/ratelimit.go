package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter is a fixed-window limiter keyed by client IP. It guards the assistant
// routes, which call a paid model API.
type RateLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
	prefix  string
	log     *slog.Logger
}

func NewRateLimiter(counter Counter, limit int, window time.Duration, prefix string, log *slog.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	if log == nil {
		log = slog.Default()
	}
	return &RateLimiter{counter: counter, limit: limit, window: window, prefix: prefix, log: log}
}

// Middleware rejects requests over the limit. Counter failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.prefix + ":" + c.ClientIP()
		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn("rate limiter error", slog.Any("err", err))
			c.Next()
			return
		}
		if count > int64(rl.limit) {
			errorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter counts requests per window in Redis so limits hold across instances.
type RedisCounter struct {
	rdb redis.Scripter
}

func NewRedisCounter(rdb redis.Scripter) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = time.Minute.Milliseconds()
	}
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, ms).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, fmt.Errorf("unexpected redis reply %T", res)
}

// MemoryCounter is the single-instance fallback when Redis is not configured.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count   int64
	expires time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: map[string]memoryWindow{}, now: time.Now}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w := m.windows[key]
	if !now.Before(w.expires) {
		w = memoryWindow{expires: now.Add(window)}
	}
	w.count++
	m.windows[key] = w
	return w.count, nil
}
