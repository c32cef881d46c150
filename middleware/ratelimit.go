package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/citynect/property-backend/utils"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client IP in fixed Redis windows.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Limit passes requests through untouched when Redis is unavailable.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.client == nil || l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, ClientIP(r))
		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			slog.Warn("rate limit check skipped", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.client.Expire(r.Context(), key, l.window).Err(); err != nil {
				slog.Warn("rate limit expiry not set", "key", key, "error", err)
			}
		}

		if count > l.limit {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			utils.WriteErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
