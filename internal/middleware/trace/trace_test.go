package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"moneymanager/internal/log"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewText(&buf, slog.LevelInfo, log.ComponentHTTP)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})
	h := log.Middleware(logger)(NewMiddleware(func(*http.Request) string { return "9.9.9.9" }).Middleware(inner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?as_of=2024-01-01", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request ID %q is not a UUID", seen)
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
	}

	out := buf.String()
	for _, want := range []string{"HTTP request completed", "level=WARN", "status_code=404", "client_ip=9.9.9.9", "request_id=" + seen, "path=/api/summary"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestMiddlewareReusesIncomingID(t *testing.T) {
	id := uuid.NewString()
	var seen string
	h := NewMiddleware(nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != id {
		t.Errorf("request ID = %q, want %q", seen, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid\nspoofed")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not-a-uuid\nspoofed" {
		t.Error("malformed incoming ID must be replaced")
	}
}
