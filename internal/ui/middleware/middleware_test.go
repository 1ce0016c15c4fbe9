package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, 2)(okHandler)

	var statuses []int
	for range 3 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contact", nil))
		statuses = append(statuses, rr.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("requests within the burst should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", statuses[2])
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := RateLimit(1, 1)(okHandler)

	post := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := post("203.0.113.1:1111"); got != http.StatusOK {
		t.Fatalf("first client status = %d, want 200", got)
	}
	// a different port is still the same client
	if got := post("203.0.113.1:2222"); got != http.StatusTooManyRequests {
		t.Errorf("first client second request status = %d, want 429", got)
	}
	if got := post("203.0.113.2:1111"); got != http.StatusOK {
		t.Errorf("second client status = %d, want 200 (own burst)", got)
	}
}

func TestClientLimitersForgetIdleClients(t *testing.T) {
	limiters := newClientLimiters(rate.Limit(1), 1, 20*time.Millisecond)

	if !limiters.allow("192.0.2.1") {
		t.Fatal("first request should be allowed")
	}
	if limiters.allow("192.0.2.1") {
		t.Fatal("second request should exceed the burst")
	}
	if got := limiters.limiters.ItemCount(); got != 1 {
		t.Fatalf("tracked clients = %d, want 1", got)
	}

	time.Sleep(50 * time.Millisecond)
	limiters.limiters.DeleteExpired()

	if got := limiters.limiters.ItemCount(); got != 0 {
		t.Errorf("tracked clients after idle period = %d, want 0", got)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, 0)(okHandler)

	for i := range 10 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contact", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rr.Code)
		}
	}
}

func TestRequestSizeLimit(t *testing.T) {
	handler := RequestSizeLimit(8)(okHandler)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("this body is too long")))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `role="alert"`) {
		t.Errorf("expected an error alert, got %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("short")))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		environment string
		wantHSTS    bool
	}{
		{"dev", false},
		{"prod", true},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			rr := httptest.NewRecorder()
			SecurityHeaders(tt.environment)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if rr.Header().Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q", rr.Header().Get("X-Frame-Options"))
			}
			if got := rr.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS set = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}
