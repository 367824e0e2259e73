package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func countResponses(handler http.Handler, clientIP string, total int) (ok, blocked int) {
	for i := 0; i < total; i++ {
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.RemoteAddr = clientIP
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			blocked++
		}
	}
	return ok, blocked
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Feature: catalog-admin, Property 59: Rate limiting blocks excessive requests
func TestProperty_RedisRateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer redisClient.Close()

			limiter := NewRedisRateLimiter(redisClient, RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            time.Minute,
				KeyPrefix:         "test_rate_limit",
			})
			handler := RateLimitMiddleware(limiter, zap.NewNop())(okHandler())

			ok, blocked := countResponses(handler, "192.168.1.100:5000", requestsPerWindow+excessRequests)
			return ok == requestsPerWindow && blocked == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-admin, Property 60: In-process limiter enforces the burst
func TestProperty_LocalRateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the burst are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			limiter := NewLocalRateLimiter(RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            time.Hour,
			})
			handler := RateLimitMiddleware(limiter, zap.NewNop())(okHandler())

			ok, blocked := countResponses(handler, "10.0.0.7", requestsPerWindow+excessRequests)
			return ok == requestsPerWindow && blocked == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitIsPerClient(t *testing.T) {
	limiter := NewLocalRateLimiter(RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour})
	handler := RateLimitMiddleware(limiter, zap.NewNop())(okHandler())

	if ok, _ := countResponses(handler, "10.0.0.1:1000", 3); ok != 2 {
		t.Fatalf("Expected 2 allowed for first client, got %d", ok)
	}
	if ok, _ := countResponses(handler, "10.0.0.2:1000", 2); ok != 2 {
		t.Fatalf("Second client must have its own budget, got %d", ok)
	}
}

func TestLocalRateLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewLocalRateLimiter(RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute}).(*localRateLimiter)
	start := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		limiter.allowAt(fmt.Sprintf("10.0.%d.%d", i/256, i%256), start)
	}
	if len(limiter.limiters) != 100 {
		t.Fatalf("Expected 100 tracked clients, got %d", len(limiter.limiters))
	}

	limiter.allowAt("10.0.0.1", start.Add(45*time.Second))
	if len(limiter.limiters) != 100 {
		t.Fatalf("Clients must be kept within the window, got %d", len(limiter.limiters))
	}

	result := limiter.allowAt("10.1.0.1", start.Add(90*time.Second))
	if !result.Allowed {
		t.Error("Expected a new client to be allowed")
	}
	if len(limiter.limiters) != 2 {
		t.Errorf("Expected idle clients to be dropped, %d remain", len(limiter.limiters))
	}
}

func TestRateLimitHeadersAreSet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	limiter := NewRedisRateLimiter(redisClient, RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		KeyPrefix:         "test_rate_limit_headers",
	})
	handler := RateLimitMiddleware(limiter, zap.NewNop())(okHandler())

	req := httptest.NewRequest("GET", "/api/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-RateLimit-Limit") != "1" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("Unexpected headers: %v", w.Header())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
}

func TestRedisFailureLetsRequestsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer redisClient.Close()
	mr.Close()

	limiter := NewRedisRateLimiter(redisClient, RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, KeyPrefix: "down"})
	handler := RateLimitMiddleware(limiter, zap.NewNop())(okHandler())

	if ok, _ := countResponses(handler, "10.0.0.3", 3); ok != 3 {
		t.Fatalf("Expected all requests through when Redis is down, got %d", ok)
	}
}
