package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/football-manager/internal/config"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
	"github.com/riskibarqy/football-manager/internal/platform/resilience"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		ServiceName:          "football-manager-api",
		HTTPAddr:             ":0",
		CORSAllowedOrigins:   []string{"*"},
		InternalJobToken:     "job-secret",
		StoreBackend:         config.StoreMemory,
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		MatchTickInterval:    time.Second,
		MatchPauseDuration:   25 * time.Second,
		MatchPauseQuota:      2,
		SweepInterval:        time.Hour,
		SweepPrematchTimeout: 30 * time.Minute,
		SweepLiveTimeout:     2 * time.Hour,
		MatchRetention:       24 * time.Hour,
		SweepWorkers:         2,
		Notify: config.NotifyConfig{
			Sink:    config.NotifyLog,
			Workers: 2,
			Circuit: resilience.DefaultCircuitBreakerConfig(),
		},
	}
}

func TestNew_MemoryBackendServesAndShutsDown(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/managers/me", nil)
	req.Header.Set("X-Manager-ID", "mgr-river")
	a.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected seeded manager profile, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected docs hidden when swagger is disabled, got %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}
