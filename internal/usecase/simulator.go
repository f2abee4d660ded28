package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const defaultTickInterval = time.Second

// SettleFunc is invoked once a simulator observes full time.
type SettleFunc func(ctx context.Context, matchID string)

// Simulator owns the authority loops. The process runs at most one loop per
// match id. Start on a running match never adds a second loop; if that loop is
// already on its way out it hands over to a fresh one.
type Simulator struct {
	store     match.Store
	rules     match.Rules
	interval  time.Duration
	settle    SettleFunc
	newRandom func() match.Random
	logger    *logging.Logger
	now       func() time.Time

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu      sync.Mutex
	runners map[string]*simRunner
	wg      sync.WaitGroup
}

type simRunner struct {
	cancel  context.CancelFunc
	done    chan struct{}
	restart bool
}

func NewSimulator(store match.Store, rules match.Rules, interval time.Duration, logger *logging.Logger) *Simulator {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = defaultTickInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Simulator{
		store:    store,
		rules:    rules,
		interval: interval,
		newRandom: func() match.Random {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		logger:     logger.With("component", "simulator"),
		now:        time.Now,
		baseCtx:    ctx,
		baseCancel: cancel,
		runners:    make(map[string]*simRunner),
	}
}

func (s *Simulator) SetSettler(fn SettleFunc) {
	s.settle = fn
}

// Start launches the loop for matchID. Only the home role holds authority.
func (s *Simulator) Start(ctx context.Context, matchID string, role match.Role) error {
	if role != match.RoleHome {
		return fmt.Errorf("%w: %w", ErrForbidden, match.ErrNotAuthority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseCtx.Err() != nil {
		return fmt.Errorf("%w: simulator is shut down", ErrDependencyUnavailable)
	}
	if runner, running := s.runners[matchID]; running {
		runner.restart = true
		return nil
	}

	s.launch(matchID)
	s.logger.InfoContext(ctx, "simulator started", "match_id", matchID)
	return nil
}

// launch registers and starts a loop. Callers hold s.mu.
func (s *Simulator) launch(matchID string) {
	loopCtx, cancel := context.WithCancel(s.baseCtx)
	runner := &simRunner{cancel: cancel, done: make(chan struct{})}
	s.runners[matchID] = runner
	s.wg.Add(1)
	go s.loop(loopCtx, matchID, runner)
}

// Stop cancels the loop for matchID and waits for it to exit.
func (s *Simulator) Stop(matchID string) {
	s.mu.Lock()
	runner, ok := s.runners[matchID]
	s.mu.Unlock()
	if !ok {
		return
	}
	runner.cancel()
	<-runner.done
}

func (s *Simulator) Running(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runners[matchID]
	return ok
}

// Shutdown stops every loop. Started matches resume through recovery.
func (s *Simulator) Shutdown() {
	s.baseCancel()
	s.wg.Wait()
}

func (s *Simulator) loop(ctx context.Context, matchID string, runner *simRunner) {
	defer s.wg.Done()
	defer close(runner.done)
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.runners[matchID] != runner {
			return
		}
		delete(s.runners, matchID)
		// A Start that raced with this loop's final write gets its own loop.
		if runner.restart && ctx.Err() == nil {
			s.launch(matchID)
		}
	}()

	rng := s.newRandom()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		result, err := s.tick(ctx, matchID, rng)
		switch {
		case errors.Is(err, match.ErrMatchNotFound):
			s.logger.WarnContext(ctx, "simulator stopping, match disappeared", "match_id", matchID)
			return
		case err != nil && ctx.Err() == nil:
			s.logger.WarnContext(ctx, "simulator tick failed", "match_id", matchID, "error", err)
		}
		if result.Fulltime {
			s.logger.InfoContext(ctx, "full time reached", "match_id", matchID)
			if s.settle != nil {
				s.settle(context.WithoutCancel(ctx), matchID)
			}
		}
		if result.Stop {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick performs one conditional write of the simulation step.
func (s *Simulator) tick(ctx context.Context, matchID string, rng match.Random) (match.TickResult, error) {
	var result match.TickResult
	_, err := s.store.Transition(ctx, matchID, func(current match.Match) (match.Patch, error) {
		patch, res := match.SimulateTick(current, s.rules, rng, s.now())
		result = res
		return patch, nil
	})
	if err != nil {
		return match.TickResult{}, errors.Wrapf(err, "simulate tick for match %s", matchID)
	}
	return result, nil
}
