package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestLoggingIncludesHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ContextRequestLogger(r.Context()) == slog.Default() {
			t.Error("expected a request scoped logger in the context")
		}
		ContextWithLogAttrs(r.Context(), slog.String("reference_id", "abc"))
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/references/abc", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not a single JSON entry: %v (%s)", err, buf.String())
	}

	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["reference_id"] != "abc" {
		t.Errorf("reference_id = %v, want abc", entry["reference_id"])
	}
	if entry["msg"] != "page served" {
		t.Errorf("msg = %v, want page served", entry["msg"])
	}
	if entry["area"] != "pages" {
		t.Errorf("area = %v, want pages", entry["area"])
	}
	if status, _ := entry["status"].(float64); status != http.StatusNotFound {
		t.Errorf("status = %v, want 404", entry["status"])
	}
}

func TestRequestLoggingSkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if buf.Len() != 0 {
		t.Errorf("expected no log output for health checks, got %s", buf.String())
	}
}

func TestSiteAreaAndServedLevel(t *testing.T) {
	areas := map[string]string{
		"/static/site.css": "static",
		"/contact":         "contact",
		"/gallery/12":      "pages",
		"/":                "pages",
	}
	for path, want := range areas {
		if got := siteArea(path); got != want {
			t.Errorf("siteArea(%q) = %q, want %q", path, got, want)
		}
	}

	levels := map[int]slog.Level{
		http.StatusOK:                  slog.LevelInfo,
		http.StatusFound:               slog.LevelInfo,
		http.StatusTooManyRequests:     slog.LevelWarn,
		http.StatusBadGateway:          slog.LevelError,
		http.StatusInternalServerError: slog.LevelError,
	}
	for status, want := range levels {
		if got := servedLevel(status); got != want {
			t.Errorf("servedLevel(%d) = %v, want %v", status, got, want)
		}
	}
}
