package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := sonic.UnmarshalString(line, &out); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q): got=%s want=%s", raw, got, want)
		}
	}
}

func TestLogger_WritesKeyValueJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("component", "simulator")

	logger.Debug("hidden", "match_id", "m-1")
	logger.Warn("tick failed", "match_id", "m-1", "error", errors.New("store down"), "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug, got %d: %q", len(lines), buf.String())
	}
	entry := decodeLine(t, lines[0])
	if entry["level"] != "WARN" || entry["msg"] != "tick failed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["component"] != "simulator" || entry["match_id"] != "m-1" || entry["error"] != "store down" {
		t.Fatalf("missing fields: %v", entry)
	}
	if _, ok := entry["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept: %v", entry)
	}
	if caller, _ := entry["caller"].(string); !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Fatalf("expected caller to point at the test, got %q", caller)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	var buf bytes.Buffer
	NewJSONWriter(&buf, LevelDebug).InfoContext(ctx, "settled")

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["trace_id"] != traceID.String() || entry["span_id"] != spanID.String() {
		t.Fatalf("expected trace fields, got %v", entry)
	}
}

func TestSetMirror_ReceivesEnabledRecords(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)
	logger.Debug("below level")
	logger.ErrorContext(context.Background(), "settlement failed", "match_id", "m-1")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "error:settlement failed" {
		t.Fatalf("unexpected mirrored records: %v", seen)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected With on nil logger to return a usable logger")
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}
