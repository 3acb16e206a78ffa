package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	// Close releases backend connections.
	Close() error
}

// NewLimiter builds the limiter selected by RATE_LIMIT_BACKEND.
// It returns a nil Limiter when RATE_LIMIT_RPS <= 0.
func NewLimiter(ctx context.Context, cfg *config.Config) (Limiter, error) {
	if cfg.RateLimitRPS <= 0 {
		return nil, nil
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}

	if cfg.RateLimitBackend != config.RateLimitBackendRedis {
		return newMemoryLimiter(cfg.RateLimitRPS, burst), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisLimiter(client, burst, time.Second), nil
}

type memoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	counter  atomic.Int64
}

func newMemoryLimiter(rps int, burst int) *memoryLimiter {
	return &memoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (s *memoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.rps, s.burst)
		s.limiters[key] = limiter
	}

	// every 1000 requests drop idle clients to bound the map
	if s.counter.Add(1)%1000 == 0 {
		s.cleanup()
	}

	return limiter.Allow(), nil
}

func (s *memoryLimiter) Close() error {
	return nil
}

// cleanup removes keys whose token bucket is full.
func (s *memoryLimiter) cleanup() {
	for key, limiter := range s.limiters {
		if limiter.Tokens() >= float64(s.burst) {
			delete(s.limiters, key)
		}
	}
}

// redisLimiter is a fixed-window counter shared by all instances.
type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func newRedisLimiter(client *redis.Client, limit int, window time.Duration) *redisLimiter {
	return &redisLimiter{client: client, limit: limit, window: window, prefix: "ratelimit"}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key, time.Now())
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, 2*l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *redisLimiter) Close() error {
	return l.client.Close()
}

func (l *redisLimiter) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, now.Truncate(l.window).Unix())
}

// RateLimitMiddleware enforces per-IP limits. A nil limiter disables it.
// Backend errors let the request through.
func RateLimitMiddleware(limiter Limiter, logger *zap.Logger, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		ok, err := limiter.Allow(r.Context(), ip)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("ip", ip), zap.Error(err))
		}

		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"code":    "rate_limited",
					"message": "Too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractIP(r *http.Request) string {
	// first hop of X-Forwarded-For when proxied
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
