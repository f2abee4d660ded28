package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const defaultSweepWorkers = 4

type SweepConfig struct {
	PrematchTimeout time.Duration
	LiveTimeout     time.Duration
	Retention       time.Duration
	Workers         int
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		PrematchTimeout: 30 * time.Minute,
		LiveTimeout:     2 * time.Hour,
		Retention:       24 * time.Hour,
		Workers:         defaultSweepWorkers,
	}
}

type SweepResult struct {
	Cancelled int `json:"cancelled"`
	Finished  int `json:"finished"`
	Deleted   int `json:"deleted"`
	Failed    int `json:"failed"`
}

// SweepService reclaims abandoned matches: stale pre-kickoff records are
// cancelled, stalled live ones are force-finished and settled, and old closed
// records are deleted.
type SweepService struct {
	store     match.Store
	simulator *Simulator
	settler   *SettlementService
	rules     match.Rules
	cfg       SweepConfig
	included  []*SweepService
	logger    *logging.Logger
	now       func() time.Time
}

func NewSweepService(store match.Store, simulator *Simulator, settler *SettlementService, rules match.Rules, cfg SweepConfig, logger *logging.Logger) *SweepService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultSweepWorkers
	}
	return &SweepService{
		store:     store,
		simulator: simulator,
		settler:   settler,
		rules:     rules,
		cfg:       cfg,
		logger:    logger.With("component", "sweep"),
		now:       time.Now,
	}
}

// Include chains sweeps over other stores behind this one. Run sums their
// results; a failing included sweep counts as one failure.
func (s *SweepService) Include(others ...*SweepService) *SweepService {
	s.included = append(s.included, others...)
	return s
}

func (s *SweepService) Run(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Run")
	defer span.End()

	result, err := s.sweep(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	for _, other := range s.included {
		extra, err := other.Run(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "included sweep failed", "error", err)
			result.Failed++
			continue
		}
		result = result.add(extra)
	}
	return result, nil
}

func (r SweepResult) add(o SweepResult) SweepResult {
	return SweepResult{
		Cancelled: r.Cancelled + o.Cancelled,
		Finished:  r.Finished + o.Finished,
		Deleted:   r.Deleted + o.Deleted,
		Failed:    r.Failed + o.Failed,
	}
}

func (s *SweepService) sweep(ctx context.Context) (SweepResult, error) {
	now := s.now().UTC()
	stalePre, err := s.store.ListByStates(ctx,
		[]match.State{match.StateWaiting, match.StatePrematch},
		now.Add(-s.cfg.PrematchTimeout),
	)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%w: list stale pre-kickoff matches: %w", ErrDependencyUnavailable, err)
	}
	staleLive, err := s.store.ListByStates(ctx,
		[]match.State{match.StateReady, match.StatePlaying, match.StateHalftime},
		now.Add(-s.cfg.LiveTimeout),
	)
	if err != nil {
		return SweepResult{}, fmt.Errorf("%w: list stale live matches: %w", ErrDependencyUnavailable, err)
	}

	var cancelled, finished, failed atomic.Int32
	workers, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	submit := func(task func() error, counter *atomic.Int32) error {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			if err := task(); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "sweep task failed", "error", err)
				return
			}
			counter.Add(1)
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit task to worker pool: %w", err)
		}
		return nil
	}

	for _, m := range stalePre {
		if err := submit(func() error { return s.expire(ctx, m.ID, now) }, &cancelled); err != nil {
			wg.Wait()
			return SweepResult{}, err
		}
	}
	for _, m := range staleLive {
		if err := submit(func() error { return s.forceFinish(ctx, m.ID, now) }, &finished); err != nil {
			wg.Wait()
			return SweepResult{}, err
		}
	}
	wg.Wait()

	deleted, err := s.store.DeleteClosedBefore(ctx, now.Add(-s.cfg.Retention))
	if err != nil {
		s.logger.WarnContext(ctx, "delete closed matches failed", "error", err)
		failed.Add(1)
	}

	result := SweepResult{
		Cancelled: int(cancelled.Load()),
		Finished:  int(finished.Load()),
		Deleted:   deleted,
		Failed:    int(failed.Load()),
	}
	s.logger.InfoContext(ctx, "sweep completed",
		"cancelled", result.Cancelled,
		"finished", result.Finished,
		"deleted", result.Deleted,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *SweepService) expire(ctx context.Context, matchID string, now time.Time) error {
	_, err := s.store.Transition(ctx, matchID, func(current match.Match) (match.Patch, error) {
		return match.ExpireStale(current, now), nil
	})
	if err != nil {
		return fmt.Errorf("expire match %s: %w", matchID, err)
	}
	return nil
}

func (s *SweepService) forceFinish(ctx context.Context, matchID string, now time.Time) error {
	if s.simulator != nil {
		s.simulator.Stop(matchID)
	}
	updated, err := s.store.Transition(ctx, matchID, func(current match.Match) (match.Patch, error) {
		return match.ForceFinish(current, s.rules, now), nil
	})
	if err != nil {
		return fmt.Errorf("force finish match %s: %w", matchID, err)
	}
	if updated.State == match.StateFinished && !updated.StatsProcessed && s.settler != nil {
		s.settler.SettleQuietly(ctx, matchID)
	}
	return nil
}
