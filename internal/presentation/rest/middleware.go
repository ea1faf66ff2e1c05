package rest

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every HTTP request with method, path, status, duration, and remote address.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// ClientRateLimiter hands out one token bucket per client address. Idle
// buckets expire after ten minutes.
type ClientRateLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *gocache.Cache
}

// NewClientRateLimiter allows rps requests per second per client. A
// non-positive rps disables limiting.
func NewClientRateLimiter(rps float64) *ClientRateLimiter {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = max(1, int(rps))
	}
	return &ClientRateLimiter{
		limit:   limit,
		burst:   burst,
		buckets: gocache.New(10*time.Minute, 5*time.Minute),
	}
}

// Allow reports whether a request from client may proceed.
func (l *ClientRateLimiter) Allow(client string) bool {
	if l.limit == rate.Inf {
		return true
	}
	if v, ok := l.buckets.Get(client); ok {
		lim := v.(*rate.Limiter)
		l.buckets.SetDefault(client, lim)
		return lim.Allow()
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(client, lim, gocache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same client.
		if v, ok := l.buckets.Get(client); ok {
			lim = v.(*rate.Limiter)
		}
	}
	return lim.Allow()
}

// RateLimitMiddleware rejects requests over the per-client limit with 429.
func RateLimitMiddleware(limiter *ClientRateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
