package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/football-manager/internal/config"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

// PprofServer serves net/http/pprof on its own listener.
type PprofServer struct {
	srv    *http.Server
	logger *logging.Logger
}

// StartPprofServer returns nil when pprof is disabled. A nil server is safe
// to Stop.
func StartPprofServer(cfg config.Config, logger *logging.Logger) *PprofServer {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	p := &PprofServer{
		srv: &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
	go func() {
		logger.Info("pprof server starting", "addr", cfg.PprofAddr)
		if err := p.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	return p
}

func (p *PprofServer) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.srv.Shutdown(ctx); err != nil {
		return err
	}
	p.logger.Info("pprof server stopped")
	return nil
}
