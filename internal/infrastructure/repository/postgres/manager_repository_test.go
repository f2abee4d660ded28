package postgres

import (
	"testing"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
)

func TestBuildOutcomeCounterQuery(t *testing.T) {
	t.Run("league win moves league columns", func(t *testing.T) {
		query, args, err := buildOutcomeCounterQuery("mgr-1", manager.MatchHistory{
			Result:        manager.ResultWin,
			GoalsFor:      3,
			GoalsAgainst:  1,
			LeagueFixture: true,
		})
		if err != nil {
			t.Fatalf("build query: %v", err)
		}
		wantQuery := "UPDATE managers SET wins = wins + $1, draws = draws + $2, losses = losses + $3, " +
			"league_wins = league_wins + $4, league_draws = league_draws + $5, league_losses = league_losses + $6, " +
			"league_points = league_points + $7, league_goals_for = league_goals_for + $8, " +
			"league_goals_against = league_goals_against + $9, updated_at = NOW() WHERE id = $10"
		if query != wantQuery {
			t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
		}
		want := []any{1, 0, 0, 1, 0, 0, 3, 3, 1, "mgr-1"}
		for i := range want {
			if args[i] != want[i] {
				t.Fatalf("arg %d: want %v got %v (all %+v)", i, want[i], args[i], args)
			}
		}
	})

	t.Run("friendly draw only moves the friendly record", func(t *testing.T) {
		_, args, err := buildOutcomeCounterQuery("mgr-2", manager.MatchHistory{
			Result:       manager.ResultDraw,
			GoalsFor:     1,
			GoalsAgainst: 1,
		})
		if err != nil {
			t.Fatalf("build query: %v", err)
		}
		want := []any{0, 1, 0, 0, 0, 0, 0, 0, 0, "mgr-2"}
		for i := range want {
			if args[i] != want[i] {
				t.Fatalf("arg %d: want %v got %v", i, want[i], args[i])
			}
		}
	})
}

func TestProfileFromRows(t *testing.T) {
	profile := profileFromRows(
		managerTableModel{ID: "mgr-1", Name: "River", Budget: 10, StadiumLevel: 2, Wins: 4, LeaguePoints: 9},
		[]managerPlayerTableModel{
			{PlayerID: "p1", Name: "Keeper", Position: "GK", Overall: 70, Age: 30, Experience: 150},
		},
		[]leaguePlayedTableModel{{OpponentID: "mgr-2", PlayedOn: "2026-03-14"}},
	)

	if profile.Facilities.Stadium != 2 || profile.Record.Wins != 4 || profile.League.Points != 9 {
		t.Fatalf("unexpected profile counters: %+v", profile)
	}
	rp, ok := profile.FindPlayer("p1")
	if !ok || rp.Experience != 150 || !rp.IsGoalkeeper() {
		t.Fatalf("unexpected roster entry: %+v", rp)
	}
	if !profile.PlayedLeagueOn("mgr-2", "2026-03-14") {
		t.Fatalf("expected league played marker")
	}

	empty := profileFromRows(managerTableModel{ID: "mgr-3"}, nil, nil)
	if empty.LeaguePlayedOn != nil || len(empty.Roster) != 0 {
		t.Fatalf("unexpected empty profile: %+v", empty)
	}
}
