package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/halcyonweb/backoffice/internal/cache"
	"github.com/halcyonweb/backoffice/internal/http/response"
	"github.com/halcyonweb/backoffice/pkg/logger"
)

// RateLimiter is the slice of the cache the intake throttle needs.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// IntakeRateLimit throttles the public form endpoint per client IP.
// Redis errors fail open; a broken cache must not take the contact form
// down with it.
func IntakeRateLimit(limiter RateLimiter, ratePerMinute, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.CheckIPRateLimit(r.Context(), clientIP(r), ratePerMinute, burst)
			if err != nil {
				logger.ErrorContext(r.Context(), "Rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !result.Allowed {
				response.RateLimit(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
