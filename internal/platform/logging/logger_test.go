package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%s want=%s", raw, got, want)
		}
	}
}

func TestLogger_WritesFieldsAndTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelInfo).Named("cup.storage").With("season_id", int64(3))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.Debug("hidden")
	logger.WarnContext(ctx, "batch failed", "batch", 2, "error", errors.New("deadlock detected"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "batch failed" || entry["logger"] != "cup.storage" || entry["level"] != "WARN" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry["error"] != "deadlock detected" || entry["batch"] != float64(2) || entry["season_id"] != float64(3) {
		t.Fatalf("unexpected fields: %+v", entry)
	}
	if entry["trace_id"] != traceID.String() {
		t.Fatalf("expected trace id, got %+v", entry["trace_id"])
	}
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("still works")
	if err := logger.Sync(); err != nil {
		t.Fatalf("nil sync should be a no-op: %v", err)
	}
	if logger.With("k", "v") == nil {
		t.Fatalf("With on nil logger should return a usable logger")
	}
}
