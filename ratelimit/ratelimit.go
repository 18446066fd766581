// Package ratelimit throttles the credential endpoints (POST /login, POST /register) per client IP.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/web"
)

// TooManyRequestsMessage is shown to throttled clients.
const TooManyRequestsMessage = "Too many attempts. Please wait a moment and try again."

// Limiter decides whether one more request for key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idleTTL is how long an untouched bucket is kept before it is swept.
const idleTTL = 10 * time.Minute

// NewLocalLimiter allows perMinute requests per key and minute, with bursts of up to perMinute.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	return &LocalLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		l.sweep(now)
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle for longer than idleTTL. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, k)
		}
	}
}

// RedisLimiter is a sliding-window limiter shared by every instance that talks to the same Redis.
type RedisLimiter struct {
	client *redis.Client
	name   string
	rate   int
	window time.Duration
}

// NewRedisLimiter allows `limit` requests per key within `window`.
func NewRedisLimiter(client *redis.Client, name string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, name: name, rate: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("rate_limit:%s:%s", l.name, key)
	now := time.Now().UnixNano()
	windowStart := now - l.window.Nanoseconds()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, redisKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}
	return countCmd.Val() < int64(l.rate), nil
}

// Middleware rejects requests over the limit with 429. Limiter failures let the request through.
func Middleware(l Limiter, resp *web.Responder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				resp.Error(w, r, apperror.NewTooManyRequestsError(TooManyRequestsMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr. chi's RealIP middleware has already
// replaced RemoteAddr from X-Forwarded-For / X-Real-IP when behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
