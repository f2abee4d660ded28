package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

// Task is one periodic unit of work. The context carries the per-run timeout.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on fixed intervals. A run that is still going
// when the next tick fires is skipped rather than stacked.
type Scheduler struct {
	s      gocron.Scheduler
	logger *logging.Logger
}

func New(logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, logger: logger.With("component", "scheduler")}, nil
}

// Every registers task to run each interval, bounded by timeout per run.
func (s *Scheduler) Every(name string, interval, timeout time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be > 0", name)
	}
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, name, timeout, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.s.Start()
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) run(name string, timeout time.Duration, task Task) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	startedAt := time.Now()
	if err := task(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "scheduled job completed", "job", name, "duration_ms", time.Since(startedAt).Milliseconds())
}
