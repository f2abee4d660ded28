package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/memory"
	notificationmock "github.com/riskibarqy/football-manager/internal/mocks/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

var matchTestNow = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("match-%d", g.n), nil
}

type matchHarness struct {
	store     *memory.MatchStore
	managers  *memory.ManagerRepository
	notifier  *notificationmock.Notifier
	simulator *Simulator
	settler   *SettlementService
	service   *MatchService
}

func newMatchHarness(t *testing.T) *matchHarness {
	t.Helper()

	store := memory.NewMatchStore()
	managers := memory.NewManagerRepository(memory.SeedManagers())
	notifier := notificationmock.NewNotifier(t)
	clock := func() time.Time { return matchTestNow }

	simulator := NewSimulator(store, match.DefaultRules(), time.Hour, logging.NewNop())
	simulator.now = clock
	t.Cleanup(simulator.Shutdown)

	settler := NewSettlementService(store, managers, notifier, logging.NewNop())
	settler.now = clock
	simulator.SetSettler(settler.SettleQuietly)

	service := NewMatchService(store, managers, notifier, simulator, settler, &sequenceIDs{}, match.DefaultRules(), logging.NewNop())
	service.now = clock

	return &matchHarness{
		store:     store,
		managers:  managers,
		notifier:  notifier,
		simulator: simulator,
		settler:   settler,
		service:   service,
	}
}

func (h *matchHarness) expectNotify(recipientID string, kind notification.Kind) {
	h.notifier.
		On("Notify", mock.Anything, mock.MatchedBy(func(msg notification.Message) bool {
			return msg.RecipientID == recipientID && msg.Kind == kind
		})).
		Return().
		Once()
}

func (h *matchHarness) starters(t *testing.T, managerID string) []string {
	t.Helper()
	profile, ok, err := h.managers.GetByID(context.Background(), managerID)
	if err != nil || !ok {
		t.Fatalf("seed manager %s missing: ok=%v err=%v", managerID, ok, err)
	}
	ids := make([]string, 0, match.SquadSize)
	for _, rp := range profile.Roster[:match.SquadSize] {
		ids = append(ids, rp.ID)
	}
	return ids
}

// kickedOff drives a River (home) vs Harbor (away) friendly to playing.
func (h *matchHarness) kickedOff(t *testing.T) match.Match {
	t.Helper()
	ctx := context.Background()

	h.expectNotify(memory.ManagerIDHarbor, notification.KindChallenge)
	created, err := h.service.Challenge(ctx, ChallengeInput{ChallengerID: memory.ManagerIDRiver, OpponentID: memory.ManagerIDHarbor})
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if _, err := h.service.Accept(ctx, created.ID, memory.ManagerIDHarbor); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := h.service.ConfirmPrematch(ctx, LineupInput{
		MatchID:   created.ID,
		ManagerID: memory.ManagerIDRiver,
		PlayerIDs: h.starters(t, memory.ManagerIDRiver),
		Formation: "4-3-3",
		Tactic:    "attacking",
	}); err != nil {
		t.Fatalf("home confirm: %v", err)
	}
	playing, err := h.service.ConfirmPrematch(ctx, LineupInput{
		MatchID:   created.ID,
		ManagerID: memory.ManagerIDHarbor,
		PlayerIDs: h.starters(t, memory.ManagerIDHarbor),
		Formation: "3-5-2",
		Tactic:    "defensive",
	})
	if err != nil {
		t.Fatalf("away confirm: %v", err)
	}
	return playing
}
