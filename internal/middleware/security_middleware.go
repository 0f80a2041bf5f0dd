// Package middleware provides HTTP middleware components.
package middleware

import (
	"math"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils/ratelimit"
)

// RateLimit is middleware that limits the rate of requests from clients.
// Each client IP gets its own token bucket per category.
//
// Parameters:
//   - store: The limiter store holding per-client buckets
//   - category: The endpoint category to apply limits for (e.g., "auth")
//
// Returns:
//   - A middleware function that can be used with an HTTP handler
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip rate limiting for health checks, static assets, etc.
			if isExemptedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			limiter := store.GetLimiter(clientIP, category)

			if !limiter.Allow() {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				retryAfter := int(math.Ceil(limiter.RetryAfter().Seconds()))
				utils.TooManyRequests(w, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request,
// handling X-Forwarded-For and X-Real-IP headers for clients behind proxies.
func getClientIP(r *http.Request) string {
	xForwardedFor := r.Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		// Use the leftmost IP in the list (client IP)
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	xRealIP := r.Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If there's no port in the address, use it as is
		return r.RemoteAddr
	}
	return ip
}

// isExemptedPath returns true if the path should never be throttled.
func isExemptedPath(path string) bool {
	exemptPrefixes := []string{
		"/health",
		"/version",
		"/static/",
		"/favicon.ico",
	}

	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
