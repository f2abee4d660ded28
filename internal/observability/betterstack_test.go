package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/football-manager/internal/config"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

type capturedBatches struct {
	mu      sync.Mutex
	auth    string
	entries []map[string]any
	posts   int
}

func newBetterStackServer(t *testing.T) (*httptest.Server, *capturedBatches) {
	t.Helper()
	captured := &capturedBatches{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []map[string]any
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&batch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		captured.mu.Lock()
		captured.posts++
		captured.auth = r.Header.Get("Authorization")
		captured.entries = append(captured.entries, batch...)
		captured.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelWarn,
		ServiceName:         "football-manager-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsBatchedLines(t *testing.T) {
	t.Parallel()

	server, captured := newBetterStackServer(t)
	logger, drain, err := InitBetterStackLogger(betterStackConfig(server.URL), logging.NewJSONWriter(new(discard), logging.LevelDebug))
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.InfoContext(context.Background(), "below ship level")
	logger.WarnContext(context.Background(), "tick failed", "match_id", "m-1")
	logger.ErrorContext(context.Background(), "settlement failed", "match_id", "m-2")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if captured.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", captured.auth)
	}
	if len(captured.entries) != 2 {
		t.Fatalf("expected 2 shipped entries, got %d: %v", len(captured.entries), captured.entries)
	}
	if captured.entries[0]["msg"] != "tick failed" || captured.entries[1]["match_id"] != "m-2" {
		t.Fatalf("unexpected entries: %v", captured.entries)
	}
}

func TestInitBetterStackLogger_Disabled(t *testing.T) {
	t.Parallel()

	base := logging.NewNop()
	logger, drain, err := InitBetterStackLogger(config.Config{}, base)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if logger != base {
		t.Fatalf("expected base logger when disabled")
	}
	if err := drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	if got := normalizeBetterStackEndpoint(" in.logs.example.com "); got != "https://in.logs.example.com" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
	if got := normalizeBetterStackEndpoint("http://localhost:9000"); got != "http://localhost:9000" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
