package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
	"github.com/riskibarqy/football-manager/internal/platform/resilience"
)

var errWebhookTransient = errors.New("webhook transient failure")

type WebhookConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookSink posts each notification as JSON to a single endpoint.
type WebhookSink struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	breaker        *resilience.CircuitBreaker
	logger         *logging.Logger
}

func NewWebhookSink(cfg WebhookConfig, logger *logging.Logger) (*WebhookSink, error) {
	if logger == nil {
		logger = logging.Default()
	}
	url := strings.TrimSpace(cfg.URL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, errors.Newf("webhook url %q must be http or https", url)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger = logger.With("component", "notify.webhook")

	return &WebhookSink{
		client: &fasthttp.Client{
			Name:                "football-manager-notify",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		url:            url,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
			logger.Warn("webhook circuit state changed", "from", from, "to", to)
		}),
		logger: logger,
	}, nil
}

func (s *WebhookSink) Deliver(ctx context.Context, msg notification.Message) error {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := sonic.ConfigDefault.NewEncoder(body).Encode(msg); err != nil {
		return errors.Wrap(err, "encode notification")
	}

	err := s.breaker.Execute(func() error {
		return s.post(ctx, msg.Kind, body.B)
	}, isTransientWebhookError)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("webhook is temporarily unavailable: %w", err)
	}
	return err
}

func (s *WebhookSink) post(ctx context.Context, kind notification.Kind, payload []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("X-Notification-Kind", string(kind))
	req.SetBody(payload)

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := s.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%w: post notification: %v", errWebhookTransient, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	callErr := fmt.Errorf("post notification status=%d body=%s", status, truncate(string(resp.Body()), 512))
	if isRetryableStatus(status) {
		return fmt.Errorf("%w: %v", errWebhookTransient, callErr)
	}
	return callErr
}

func isTransientWebhookError(err error) bool {
	return errors.Is(err, errWebhookTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}
