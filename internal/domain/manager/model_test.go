package manager

import (
	"testing"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

func TestResultFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		gf, ga int
		want   Result
		points int
	}{
		{gf: 2, ga: 1, want: ResultWin, points: 3},
		{gf: 1, ga: 1, want: ResultDraw, points: 1},
		{gf: 0, ga: 3, want: ResultLoss, points: 0},
	}
	for _, tc := range tests {
		got := ResultFor(tc.gf, tc.ga)
		if got != tc.want {
			t.Fatalf("ResultFor(%d,%d): got=%s want=%s", tc.gf, tc.ga, got, tc.want)
		}
		if got.LeaguePoints() != tc.points {
			t.Fatalf("points for %s: got=%d want=%d", got, got.LeaguePoints(), tc.points)
		}
	}
}

func TestProfileHelpers(t *testing.T) {
	t.Parallel()

	p := Profile{
		ID: "m1",
		Roster: []RosterPlayer{
			{Player: player.Player{ID: "p1", Overall: 80}},
			{Player: player.Player{ID: "p2", Overall: 60}},
		},
		League:         LeagueRecord{GoalsFor: 10, GoalsAgainst: 4},
		LeaguePlayedOn: map[string]string{"m2": "2026-03-14"},
	}

	if got := p.AverageOverall(); got != 70 {
		t.Fatalf("unexpected average overall: %f", got)
	}
	if _, ok := p.FindPlayer("p2"); !ok {
		t.Fatalf("expected to find p2")
	}
	if p.League.GoalDifference() != 6 {
		t.Fatalf("unexpected goal difference: %d", p.League.GoalDifference())
	}
	if !p.PlayedLeagueOn("m2", "2026-03-14") || p.PlayedLeagueOn("m2", "2026-03-15") {
		t.Fatalf("unexpected played-today marker evaluation")
	}
}

func TestProfileApplyOutcome(t *testing.T) {
	t.Parallel()

	var p Profile
	p.ApplyOutcome(Outcome{
		History:  MatchHistory{OpponentID: "m2", GoalsFor: 1, GoalsAgainst: 1, Result: ResultDraw},
		PlayedOn: "2026-03-14",
	})
	if p.Record.Draws != 1 || p.League.Draws != 0 || p.LeaguePlayedOn != nil {
		t.Fatalf("friendly must only touch friendly counters: %+v", p)
	}

	p.ApplyOutcome(Outcome{
		History:  MatchHistory{OpponentID: "m2", GoalsFor: 3, GoalsAgainst: 1, Result: ResultWin, LeagueFixture: true},
		PlayedOn: "2026-03-15",
	})
	if p.Record.Wins != 1 {
		t.Fatalf("expected friendly win counter to update for league fixture, got %d", p.Record.Wins)
	}
	if p.League.Wins != 1 || p.League.Points != 3 || p.League.GoalDifference() != 2 {
		t.Fatalf("unexpected league record: %+v", p.League)
	}
	if !p.PlayedLeagueOn("m2", "2026-03-15") {
		t.Fatalf("expected played-today marker for m2")
	}
}
