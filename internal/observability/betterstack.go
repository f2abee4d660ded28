package observability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/football-manager/internal/config"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const (
	betterStackQueueSize  = 1024
	betterStackBatchSize  = 50
	betterStackFlushEvery = time.Second
)

// InitBetterStackLogger tees the stdout logger into a batched Better Stack
// shipper. The returned drain func flushes queued lines.
func InitBetterStackLogger(cfg config.Config, base *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if base == nil {
		base = logging.NewJSON(cfg.LogLevel)
	}
	noop := func(context.Context) error { return nil }

	if !cfg.BetterStackEnabled {
		base.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return base, noop, nil
	}
	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, cfg.BetterStackToken, cfg.BetterStackTimeout)
	shipCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.JSONEncoderConfig()),
		zapcore.AddSync(shipper),
		cfg.BetterStackMinLevel,
	)
	tee := base.Zap().WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, shipCore)
	}))

	logger := logging.FromZap(tee)
	logger.Info("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return logger, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// betterStackShipper is a zapcore.WriteSyncer that never blocks the caller.
// Lines are queued, grouped into JSON arrays and posted from one goroutine.
type betterStackShipper struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *fasthttp.Client

	queue   chan []byte
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	done    chan struct{}
	dropped atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &betterStackShipper{
		endpoint: endpoint,
		token:    strings.TrimSpace(token),
		timeout:  timeout,
		client: &fasthttp.Client{
			Name:         "football-manager-logs",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		queue: make(chan []byte, betterStackQueueSize),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses its buffer after Write returns.
	copied := append([]byte(nil), line...)
	select {
	case s.queue <- copied:
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *betterStackShipper) Sync() error {
	return nil
}

func (s *betterStackShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(betterStackFlushEvery)
	defer ticker.Stop()

	batch := make([][]byte, 0, betterStackBatchSize)
	flush := func() {
		if len(batch) > 0 {
			s.send(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case line, ok := <-s.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, line)
			if len(batch) >= betterStackBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *betterStackShipper) send(batch [][]byte) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	_ = body.WriteByte('[')
	for i, line := range batch {
		if i > 0 {
			_ = body.WriteByte(',')
		}
		_, _ = body.Write(line)
	}
	_ = body.WriteByte(']')

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.SetBody(body.B)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		fmt.Fprintf(os.Stderr, "betterstack send logs failed: %v\n", err)
		return
	}
	if resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack send logs got non-2xx status=%d\n", resp.StatusCode())
	}
}

// Close stops accepting lines and waits for the queue to drain.
func (s *betterStackShipper) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
