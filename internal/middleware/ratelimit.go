package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// RateLimitResult is the outcome of a single rate limit check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// RateLimiter decides whether a client may make another request
type RateLimiter interface {
	Allow(ctx context.Context, clientID string) (RateLimitResult, error)
}

type redisRateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRedisRateLimiter creates a fixed-window limiter backed by Redis INCR
func NewRedisRateLimiter(client *redis.Client, config RateLimitConfig) RateLimiter {
	return &redisRateLimiter{client: client, config: config}
}

func (l *redisRateLimiter) Allow(ctx context.Context, clientID string) (RateLimitResult, error) {
	key := fmt.Sprintf("%s:%s", l.config.KeyPrefix, clientID)
	result := RateLimitResult{Limit: l.config.RequestsPerWindow}

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return result, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry on first request
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return result, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	if count > int64(l.config.RequestsPerWindow) {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.config.Window
		}
		result.ResetAfter = ttl
		return result, nil
	}

	result.Allowed = true
	result.Remaining = l.config.RequestsPerWindow - int(count)
	return result, nil
}

type localRateLimiter struct {
	mu        sync.Mutex
	config    RateLimitConfig
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter creates an in-process token bucket limiter per client.
// Used when no Redis is configured.
func NewLocalRateLimiter(config RateLimitConfig) RateLimiter {
	if config.RequestsPerWindow < 1 {
		config.RequestsPerWindow = 1
	}
	return &localRateLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
	}
}

func (l *localRateLimiter) Allow(ctx context.Context, clientID string) (RateLimitResult, error) {
	return l.allowAt(clientID, time.Now()), nil
}

func (l *localRateLimiter) allowAt(clientID string, now time.Time) RateLimitResult {
	l.mu.Lock()
	l.sweep(now)
	entry, ok := l.limiters[clientID]
	if !ok {
		every := l.config.Window / time.Duration(l.config.RequestsPerWindow)
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), l.config.RequestsPerWindow)}
		l.limiters[clientID] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	limiter := entry.limiter
	result := RateLimitResult{Limit: l.config.RequestsPerWindow}

	reservation := limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		result.ResetAfter = delay
		return result
	}

	result.Allowed = true
	result.Remaining = int(limiter.TokensAt(now))
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	return result
}

// sweep drops clients idle for a whole window, at most once per window. Their
// bucket has refilled by then, so a fresh limiter behaves the same.
func (l *localRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.Window {
		return
	}
	l.lastSweep = now

	for id, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.config.Window {
			delete(l.limiters, id)
		}
	}
}

// RateLimitMiddleware rejects clients that exceed the limiter's budget with 429
func RateLimitMiddleware(limiter RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientIdentifier(r)

			result, err := limiter.Allow(r.Context(), clientID)
			if err != nil {
				logger.Error("Rate limit check failed",
					zap.Error(err),
					zap.String("client_id", clientID),
				)
				// On limiter error, allow request to proceed
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int("limit", result.Limit),
				)

				retryAfter := int(result.ResetAfter.Round(time.Second).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(result.ResetAfter).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIdentifier(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
