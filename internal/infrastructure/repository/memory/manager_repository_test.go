package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
)

func TestManagerRepository_ApplyOutcomeIsIdempotentPerMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewManagerRepository(SeedManagers())
	outcome := manager.Outcome{
		History: manager.MatchHistory{
			MatchID:       "m-1",
			OpponentID:    ManagerIDHarbor,
			GoalsFor:      2,
			GoalsAgainst:  0,
			Result:        manager.ResultWin,
			LeagueFixture: true,
			PlayedAt:      time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
		},
		PlayedOn: "2026-03-14",
	}

	for i := 0; i < 2; i++ {
		if err := repo.ApplyOutcome(ctx, ManagerIDRiver, outcome); err != nil {
			t.Fatalf("apply outcome #%d: %v", i+1, err)
		}
	}

	profile, ok, err := repo.GetByID(ctx, ManagerIDRiver)
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%v err=%v", ok, err)
	}
	if profile.Record.Wins != 1 || profile.League.Points != 3 {
		t.Fatalf("expected single application, got record=%+v league=%+v", profile.Record, profile.League)
	}
	if !profile.PlayedLeagueOn(ManagerIDHarbor, "2026-03-14") {
		t.Fatalf("expected played-today marker")
	}

	history, err := repo.ListHistory(ctx, ManagerIDRiver, 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].MatchID != "m-1" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestManagerRepository_RewardsAndExperience(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewManagerRepository(SeedManagers())
	before, _, _ := repo.GetByID(ctx, ManagerIDForge)

	if err := repo.AddBudget(ctx, ManagerIDForge, 1_000_000); err != nil {
		t.Fatalf("add budget: %v", err)
	}
	if err := repo.AwardExperience(ctx, ManagerIDForge, map[string]int{ManagerIDForge + "-st1": 100}); err != nil {
		t.Fatalf("award experience: %v", err)
	}
	if err := repo.AwardRosterExperience(ctx, ManagerIDForge, 100); err != nil {
		t.Fatalf("award roster experience: %v", err)
	}

	after, _, _ := repo.GetByID(ctx, ManagerIDForge)
	if after.Budget != before.Budget+1_000_000 {
		t.Fatalf("unexpected budget: %d", after.Budget)
	}
	striker, _ := after.FindPlayer(ManagerIDForge + "-st1")
	keeper, _ := after.FindPlayer(ManagerIDForge + "-gk1")
	if striker.Experience != 200 || keeper.Experience != 100 {
		t.Fatalf("unexpected experience: striker=%d keeper=%d", striker.Experience, keeper.Experience)
	}

	if err := repo.AddBudget(ctx, "nobody", 1); !errors.Is(err, manager.ErrManagerNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}
}

func TestSeedManagers_RostersAreValid(t *testing.T) {
	t.Parallel()

	for _, profile := range SeedManagers() {
		if len(profile.Roster) < 11 {
			t.Fatalf("manager %s has only %d players", profile.ID, len(profile.Roster))
		}
		for _, rp := range profile.Roster {
			if err := rp.Validate(); err != nil {
				t.Fatalf("manager %s player %s invalid: %v", profile.ID, rp.ID, err)
			}
		}
	}
}
