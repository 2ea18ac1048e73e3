package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelInfo, ComponentLedger)
	logger.Info("hello", FieldUsername, "alice")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "username=alice") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level")
	}

	buf.Reset()
	logger.WithComponent(ComponentHTTP).Warn("w")
	if !strings.Contains(buf.String(), "component=http") {
		t.Errorf("WithComponent not applied: %q", buf.String())
	}
}

func TestMiddlewareAndFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelInfo, ComponentHTTP)

	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithLogger(r.Context(), FromContext(r.Context()).With(FieldRequestID, "req-1"))
		FromContext(ctx).InfoContext(ctx, "inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("request id missing: %q", buf.String())
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Errorf("expected fallback logger")
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(NewText(&buf, slog.LevelInfo, ComponentApp))

	sl.LogHTTPEnd(context.Background(), httptest.NewRequest(http.MethodPost, "/api/goals", nil), 422, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status_code=422") {
		t.Errorf("unexpected http log %q", buf.String())
	}

	buf.Reset()
	sl.LogLedgerChange(context.Background(), "alice", OpAddGoal, NewFields().WithTransaction("Food", "Expense", "1.00"))
	if !strings.Contains(buf.String(), "operation=add_goal") || !strings.Contains(buf.String(), "username=alice") {
		t.Errorf("unexpected change log %q", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("disk full"), ComponentStorage, OpExport, nil)
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), `error="disk full"`) {
		t.Errorf("unexpected error log %q", buf.String())
	}
}
