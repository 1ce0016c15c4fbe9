package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

/*
The website logs in two ways:

1. immediate logging (ContextRequestLogger):
   - for events that happen while a page or form post is being handled, e.g. a failed API call.
     The entry is written straight away and carries the request_id.

2. request completion logging (ContextWithLogAttrs):
   - for details that belong on the single "page served" entry written when the request finishes,
     e.g. the reference being viewed or the contact reference returned by the API.
*/

type ctxKey string

const (
	pageAttrsKey     ctxKey = "page_attrs"
	requestLoggerKey ctxKey = "request_logger"
)

// ContextWithLogAttrs records attributes for the "page served" entry of the current request.
// It must be called on a context that went through RequestLogging.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	collected, ok := ctx.Value(pageAttrsKey).(*[]slog.Attr)
	if !ok {
		slog.Warn("log attributes dropped: context was not set up by RequestLogging")
		return ctx
	}
	*collected = append(*collected, attrs...)
	return ctx
}

// ContextLogAttrs returns what handlers recorded with ContextWithLogAttrs
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if collected, ok := ctx.Value(pageAttrsKey).(*[]slog.Attr); ok {
		return *collected
	}
	return nil
}

// ContextRequestLogger returns the logger for the request being handled, or the default logger outside a request
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if reqLogger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return reqLogger
	}
	return slog.Default()
}

// ParseLogLevel maps LOG_LEVEL to a slog level, unknown values give debug
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// InitLogger builds the website logger.
// In dev the output is colourized text on stderr, in every other environment it is JSON on stdout.
func InitLogger(logLevel slog.Level, environment string) *slog.Logger {
	if environment != "dev" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
}

// siteArea groups request paths for the "area" attribute of the page served entry
func siteArea(path string) string {
	switch {
	case strings.HasPrefix(path, "/static/"):
		return "static"
	case strings.HasPrefix(path, "/contact"):
		return "contact"
	default:
		return "pages"
	}
}

// servedLevel picks the level of the page served entry from the response status
func servedLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// RequestLogging writes one "page served" entry per request, health checks excepted.
// It must run after chi's RequestID middleware.
func RequestLogging(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health/") {
				next.ServeHTTP(w, r)
				return
			}

			started := time.Now()
			requestID := middleware.GetReqID(r.Context())

			collected := &[]slog.Attr{}
			ctx := context.WithValue(r.Context(), pageAttrsKey, collected)
			ctx = context.WithValue(ctx, requestLoggerKey, baseLogger.With(slog.String("request_id", requestID)))

			rw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := make([]slog.Attr, 0, 8+len(*collected))
			attrs = append(attrs,
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("area", siteArea(r.URL.Path)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", rw.Status()),
			)
			attrs = append(attrs, *collected...)
			attrs = append(attrs,
				slog.Int("bytes", rw.BytesWritten()),
				slog.Duration("duration", time.Since(started)),
			)

			baseLogger.LogAttrs(r.Context(), servedLevel(rw.Status()), "page served", attrs...)
		})
	}
}
