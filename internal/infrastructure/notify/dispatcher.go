package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const defaultDispatchWorkers = 8

// Dispatcher hands messages to a Sink on a bounded worker pool. When every
// worker is busy the message is dropped and logged; callers never wait.
type Dispatcher struct {
	sink   notification.Sink
	pool   *ants.Pool
	logger *logging.Logger
}

func NewDispatcher(sink notification.Sink, workers int, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultDispatchWorkers
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}
	return &Dispatcher{
		sink:   sink,
		pool:   pool,
		logger: logger.With("component", "notify"),
	}, nil
}

func (d *Dispatcher) Notify(ctx context.Context, msg notification.Message) {
	deliveryCtx := context.WithoutCancel(ctx)
	err := d.pool.Submit(func() {
		if err := d.sink.Deliver(deliveryCtx, msg); err != nil {
			d.logger.WarnContext(deliveryCtx, "notification delivery failed",
				"recipient_id", msg.RecipientID,
				"kind", msg.Kind,
				"error", err,
			)
		}
	})
	if err != nil {
		d.logger.WarnContext(ctx, "notification dropped",
			"recipient_id", msg.RecipientID,
			"kind", msg.Kind,
			"error", err,
		)
	}
}

// Close waits up to timeout for in-flight deliveries.
func (d *Dispatcher) Close(timeout time.Duration) error {
	if err := d.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release notification workers: %w", err)
	}
	return nil
}
