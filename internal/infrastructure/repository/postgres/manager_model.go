package postgres

import (
	"time"

	"github.com/lib/pq"
)

type managerTableModel struct {
	ID                 string `db:"id"`
	Name               string `db:"name"`
	Budget             int64  `db:"budget"`
	StadiumLevel       int    `db:"stadium_level"`
	Wins               int    `db:"wins"`
	Draws              int    `db:"draws"`
	Losses             int    `db:"losses"`
	LeagueWins         int    `db:"league_wins"`
	LeagueDraws        int    `db:"league_draws"`
	LeagueLosses       int    `db:"league_losses"`
	LeaguePoints       int    `db:"league_points"`
	LeagueGoalsFor     int    `db:"league_goals_for"`
	LeagueGoalsAgainst int    `db:"league_goals_against"`
}

type managerPlayerTableModel struct {
	PlayerID   string `db:"player_id"`
	Name       string `db:"name"`
	Position   string `db:"position"`
	Overall    int    `db:"overall"`
	Age        int    `db:"age"`
	Experience int    `db:"experience"`
}

type leaguePlayedTableModel struct {
	OpponentID string `db:"opponent_id"`
	PlayedOn   string `db:"played_on"`
}

type matchHistoryTableModel struct {
	MatchID       string         `db:"match_id"`
	OpponentID    string         `db:"opponent_id"`
	OpponentName  string         `db:"opponent_name"`
	GoalsFor      int            `db:"goals_for"`
	GoalsAgainst  int            `db:"goals_against"`
	Result        string         `db:"result"`
	LeagueFixture bool           `db:"league_fixture"`
	Forfeit       bool           `db:"forfeit"`
	Summary       string         `db:"summary"`
	Scorers       pq.StringArray `db:"scorers"`
	PlayedAt      time.Time      `db:"played_at"`
}

type matchHistoryInsertModel struct {
	ManagerID     string         `db:"manager_id"`
	MatchID       string         `db:"match_id"`
	OpponentID    string         `db:"opponent_id"`
	OpponentName  string         `db:"opponent_name"`
	GoalsFor      int            `db:"goals_for"`
	GoalsAgainst  int            `db:"goals_against"`
	Result        string         `db:"result"`
	LeagueFixture bool           `db:"league_fixture"`
	Forfeit       bool           `db:"forfeit"`
	Summary       string         `db:"summary"`
	Scorers       pq.StringArray `db:"scorers"`
	PlayedAt      time.Time      `db:"played_at"`
}
