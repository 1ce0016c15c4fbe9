package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/templates"
)

func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			w.Header().Set("X-Content-Type-Options", "nosniff")

			// for legacy support
			w.Header().Set("X-Frame-Options", "DENY")

			// images are served by the API so any https/http image source is allowed; htmx is loaded from unpkg
			w.Header().Set("Content-Security-Policy",
				"default-src 'self'; img-src 'self' https: http: data:; script-src 'self' https://unpkg.com; frame-ancestors 'none';")

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if environment == "prod" || environment == "staging" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit rejects request bodies larger than maxBytes.
// Bodies without a Content-Length are wrapped so the limit is enforced when the handler reads them.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				reqLogger := logger.ContextRequestLogger(r.Context())

				reqLogger.Warn("Request size limit exceeded",
					slog.String("component", "RequestSizeLimit"),
					slog.Int64("content_length", r.ContentLength),
					slog.Int64("max_bytes", maxBytes),
				)

				// Add context for final request log
				logger.ContextWithLogAttrs(r.Context(),
					slog.Int64("content_length", r.ContentLength),
					slog.Int64("max_bytes", maxBytes),
				)

				renderAlert(w, r, http.StatusRequestEntityTooLarge,
					"The attachment is too large. Please send a smaller file or email it to us directly.")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// clients not seen for this long are forgotten
const clientLimiterIdle = 10 * time.Minute

// clientLimiters holds one token bucket per client address, idle buckets expire from the cache
type clientLimiters struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func newClientLimiters(limit rate.Limit, burst int, idle time.Duration) *clientLimiters {
	return &clientLimiters{
		limit:    limit,
		burst:    burst,
		limiters: cache.New(idle, idle),
	}
}

// limiter returns the bucket for client, creating it on first use. Each use restarts the idle period.
func (c *clientLimiters) limiter(client string) *rate.Limiter {
	if v, found := c.limiters.Get(client); found {
		c.limiters.SetDefault(client, v)
		return v.(*rate.Limiter)
	}

	l := rate.NewLimiter(c.limit, c.burst)
	if err := c.limiters.Add(client, l, cache.DefaultExpiration); err != nil {
		// another request for the same client got there first
		if v, found := c.limiters.Get(client); found {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// allow reports whether the client may make a request now
func (c *clientLimiters) allow(client string) bool {
	return c.limiter(client).Allow()
}

// clientAddress returns the host part of r.RemoteAddr (RealIP has already replaced it with the forwarded address)
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit limits requests per second for each client address. If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiters := newClientLimiters(rate.Limit(requestsPerSecond), int(burst), clientLimiterIdle)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddress(r)
			if !limiters.allow(client) {
				reqLogger := logger.ContextRequestLogger(r.Context())

				reqLogger.Warn("Rate limit exceeded",
					slog.String("component", "RateLimit"),
					slog.String("remote_addr", client),
				)

				logger.ContextWithLogAttrs(r.Context(),
					slog.String("remote_addr", client),
				)

				renderAlert(w, r, http.StatusTooManyRequests, "Too many requests. Please try again in a few moments.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// renderAlert writes an error alert fragment with the given status
func renderAlert(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorAlert(message).Render(r.Context(), w); err != nil {
		logger.ContextRequestLogger(r.Context()).Error("Failed to render error alert", slog.String("error", err.Error()))
	}
}
