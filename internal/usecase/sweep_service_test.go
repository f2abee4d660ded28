package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

func TestSweepService_Run(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewMatchStore()
	managers := memory.NewManagerRepository(memory.SeedManagers())
	settler := NewSettlementService(store, managers, nil, logging.NewNop())
	settler.now = func() time.Time { return matchTestNow }

	create := func(id string, state match.State, createdAgo time.Duration) {
		m := match.New(id,
			match.Side{ManagerID: memory.ManagerIDRiver, ManagerName: "River Athletic"},
			match.Side{ManagerID: memory.ManagerIDHarbor, ManagerName: "Harbor United"},
			false,
			matchTestNow.Add(-createdAgo),
		)
		m.State = state
		if state == match.StatePlaying {
			m.MatchStartTime = m.CreatedAt
		}
		require.NoError(t, store.Create(ctx, m))
	}
	create("stale-waiting", match.StateWaiting, 31*time.Minute)
	create("fresh-prematch", match.StatePrematch, 5*time.Minute)
	create("stale-playing", match.StatePlaying, 3*time.Hour)
	create("fresh-playing", match.StatePlaying, 10*time.Minute)
	create("old-cancelled", match.StateCancelled, 30*time.Hour)

	sweep := NewSweepService(store, nil, settler, match.DefaultRules(), DefaultSweepConfig(), logging.NewNop())
	sweep.now = func() time.Time { return matchTestNow }

	result, err := sweep.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepResult{Cancelled: 1, Finished: 1, Deleted: 1}, result)

	expired, _, _ := store.Get(ctx, "stale-waiting")
	require.Equal(t, match.StateCancelled, expired.State)
	require.NotNil(t, expired.CancelledAt)

	untouched, _, _ := store.Get(ctx, "fresh-prematch")
	require.Equal(t, match.StatePrematch, untouched.State)

	forced, _, _ := store.Get(ctx, "stale-playing")
	require.Equal(t, match.StateFinished, forced.State)
	require.Equal(t, 120, forced.SecondsElapsed)
	require.True(t, forced.StatsProcessed)

	_, ok, _ := store.Get(ctx, "old-cancelled")
	require.False(t, ok)

	river, _, _ := managers.GetByID(ctx, memory.ManagerIDRiver)
	require.Equal(t, 1, river.Record.Draws)

	// A second run finds nothing left to do.
	again, err := sweep.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepResult{}, again)
}

func TestSweepService_IncludeReclaimsPracticeMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	managers := memory.NewManagerRepository(memory.SeedManagers())
	clock := func() time.Time { return matchTestNow }

	networked := memory.NewMatchStore()
	practiceStore := memory.NewMatchStore()
	practiceSettler := NewSettlementService(practiceStore, managers, nil, logging.NewNop())
	practiceSettler.now = clock

	create := func(id string, state match.State, createdAgo time.Duration) {
		m := match.New(id,
			match.Side{ManagerID: memory.ManagerIDRiver, ManagerName: "River Athletic"},
			match.Side{ManagerID: practiceOpponentID, ManagerName: practiceOpponentName, AI: true},
			false,
			matchTestNow.Add(-createdAgo),
		)
		m.Practice = true
		m.State = state
		require.NoError(t, practiceStore.Create(ctx, m))
	}
	create("abandoned-ready", match.StateReady, 3*time.Hour)
	create("old-practice", match.StateCancelled, 30*time.Hour)

	practiceSweep := NewSweepService(practiceStore, nil, practiceSettler, match.DefaultRules(), DefaultSweepConfig(), logging.NewNop())
	practiceSweep.now = clock
	sweep := NewSweepService(networked, nil, nil, match.DefaultRules(), DefaultSweepConfig(), logging.NewNop()).Include(practiceSweep)
	sweep.now = clock

	result, err := sweep.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, SweepResult{Finished: 1, Deleted: 1}, result)

	forced, _, _ := practiceStore.Get(ctx, "abandoned-ready")
	require.Equal(t, match.StateFinished, forced.State)
	require.True(t, forced.StatsProcessed)
	require.NotNil(t, forced.Report)

	_, ok, _ := practiceStore.Get(ctx, "old-practice")
	require.False(t, ok)

	river, _, _ := managers.GetByID(ctx, memory.ManagerIDRiver)
	require.Equal(t, 0, river.Record.Draws)
}
