package postgres

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/player"
	qb "github.com/riskibarqy/football-manager/internal/platform/querybuilder"
)

const historyConflictSuffix = "ON CONFLICT (manager_id, match_id) DO NOTHING"

type ManagerRepository struct {
	db *sqlx.DB
}

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) GetByID(ctx context.Context, managerID string) (manager.Profile, bool, error) {
	query, args, err := qb.Select(
		"id", "name", "budget", "stadium_level",
		"wins", "draws", "losses",
		"league_wins", "league_draws", "league_losses", "league_points",
		"league_goals_for", "league_goals_against",
	).
		From("managers").
		Where(qb.Eq("id", managerID)).
		ToSQL()
	if err != nil {
		return manager.Profile{}, false, fmt.Errorf("build get manager query: %w", err)
	}

	var row managerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return manager.Profile{}, false, nil
		}
		return manager.Profile{}, false, fmt.Errorf("get manager: %w", err)
	}

	rosterQuery, rosterArgs, err := qb.Select("player_id", "name", "position", "overall", "age", "experience").
		From("manager_players").
		Where(qb.Eq("manager_id", managerID)).
		OrderBy("sort_order", "player_id").
		ToSQL()
	if err != nil {
		return manager.Profile{}, false, fmt.Errorf("build roster query: %w", err)
	}
	var rosterRows []managerPlayerTableModel
	if err := r.db.SelectContext(ctx, &rosterRows, rosterQuery, rosterArgs...); err != nil {
		return manager.Profile{}, false, fmt.Errorf("list manager roster: %w", err)
	}

	const playedQuery = `
SELECT opponent_id, to_char(played_on, 'YYYY-MM-DD') AS played_on
FROM manager_league_played
WHERE manager_id = $1`
	var playedRows []leaguePlayedTableModel
	if err := r.db.SelectContext(ctx, &playedRows, playedQuery, managerID); err != nil {
		return manager.Profile{}, false, fmt.Errorf("list league played markers: %w", err)
	}

	return profileFromRows(row, rosterRows, playedRows), true, nil
}

// ApplyOutcome inserts the history row first; counters only move when that
// insert actually wrote, so replays for the same match are no-ops.
func (r *ManagerRepository) ApplyOutcome(ctx context.Context, managerID string, outcome manager.Outcome) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply outcome: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	h := outcome.History
	insertQuery, insertArgs, err := qb.InsertModel("match_histories", matchHistoryInsertModel{
		ManagerID:     managerID,
		MatchID:       h.MatchID,
		OpponentID:    h.OpponentID,
		OpponentName:  h.OpponentName,
		GoalsFor:      h.GoalsFor,
		GoalsAgainst:  h.GoalsAgainst,
		Result:        string(h.Result),
		LeagueFixture: h.LeagueFixture,
		Forfeit:       h.Forfeit,
		Summary:       h.Summary,
		Scorers:       pq.StringArray(h.Scorers),
		PlayedAt:      h.PlayedAt.UTC(),
	}, historyConflictSuffix)
	if err != nil {
		return fmt.Errorf("build insert history query: %w", err)
	}
	res, err := tx.ExecContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
		}
		return fmt.Errorf("insert match history: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert match history rows affected: %w", err)
	}
	if inserted == 0 {
		return tx.Commit()
	}

	counterQuery, counterArgs, err := buildOutcomeCounterQuery(managerID, h)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, counterQuery, counterArgs...); err != nil {
		return fmt.Errorf("update manager record: %w", err)
	}

	if h.LeagueFixture {
		const markQuery = `
INSERT INTO manager_league_played (manager_id, opponent_id, played_on)
VALUES ($1, $2, $3::date)
ON CONFLICT (manager_id, opponent_id) DO UPDATE SET played_on = EXCLUDED.played_on`
		if _, err := tx.ExecContext(ctx, markQuery, managerID, h.OpponentID, outcome.PlayedOn); err != nil {
			return fmt.Errorf("mark league fixture played: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply outcome: %w", err)
	}
	return nil
}

func (r *ManagerRepository) AwardExperience(ctx context.Context, managerID string, xpByPlayer map[string]int) error {
	if len(xpByPlayer) == 0 {
		return nil
	}

	ids := make([]string, 0, len(xpByPlayer))
	amounts := make([]int64, 0, len(xpByPlayer))
	for id, xp := range xpByPlayer {
		ids = append(ids, id)
		amounts = append(amounts, int64(xp))
	}

	const query = `
UPDATE manager_players AS mp
SET experience = mp.experience + award.xp
FROM unnest($2::text[], $3::bigint[]) AS award(player_id, xp)
WHERE mp.manager_id = $1
  AND mp.player_id = award.player_id`
	if _, err := r.db.ExecContext(ctx, query, managerID, pq.Array(ids), pq.Array(amounts)); err != nil {
		return fmt.Errorf("award player experience: %w", err)
	}
	return nil
}

func (r *ManagerRepository) AwardRosterExperience(ctx context.Context, managerID string, xp int) error {
	query, args, err := qb.Update("manager_players").
		SetExpr("experience", "experience + ?", xp).
		Where(qb.Eq("manager_id", managerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build roster experience query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("award roster experience: %w", err)
	}
	return nil
}

func (r *ManagerRepository) AddBudget(ctx context.Context, managerID string, amount int64) error {
	query, args, err := qb.Update("managers").
		SetExpr("budget", "budget + ?", amount).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", managerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add budget query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("add manager budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add manager budget rows affected: %w", err)
	}
	if affected == 0 {
		return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
	}
	return nil
}

func (r *ManagerRepository) ListHistory(ctx context.Context, managerID string, limit int) ([]manager.MatchHistory, error) {
	query, args, err := qb.Select(
		"match_id", "opponent_id", "opponent_name", "goals_for", "goals_against",
		"result", "league_fixture", "forfeit", "summary", "scorers", "played_at",
	).
		From("match_histories").
		Where(qb.Eq("manager_id", managerID)).
		OrderBy("played_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list history query: %w", err)
	}

	var rows []matchHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}

	out := make([]manager.MatchHistory, 0, len(rows))
	for _, row := range rows {
		out = append(out, manager.MatchHistory{
			MatchID:       row.MatchID,
			OpponentID:    row.OpponentID,
			OpponentName:  row.OpponentName,
			GoalsFor:      row.GoalsFor,
			GoalsAgainst:  row.GoalsAgainst,
			Result:        manager.Result(row.Result),
			LeagueFixture: row.LeagueFixture,
			Forfeit:       row.Forfeit,
			Summary:       row.Summary,
			Scorers:       []string(row.Scorers),
			PlayedAt:      row.PlayedAt.UTC(),
		})
	}
	return out, nil
}

// buildOutcomeCounterQuery reuses Profile.ApplyOutcome on a zero profile to
// get the deltas, keeping the counting rules in one place.
func buildOutcomeCounterQuery(managerID string, h manager.MatchHistory) (string, []any, error) {
	var delta manager.Profile
	delta.ApplyOutcome(manager.Outcome{History: h})

	query, args, err := qb.Update("managers").
		SetExpr("wins", "wins + ?", delta.Record.Wins).
		SetExpr("draws", "draws + ?", delta.Record.Draws).
		SetExpr("losses", "losses + ?", delta.Record.Losses).
		SetExpr("league_wins", "league_wins + ?", delta.League.Wins).
		SetExpr("league_draws", "league_draws + ?", delta.League.Draws).
		SetExpr("league_losses", "league_losses + ?", delta.League.Losses).
		SetExpr("league_points", "league_points + ?", delta.League.Points).
		SetExpr("league_goals_for", "league_goals_for + ?", delta.League.GoalsFor).
		SetExpr("league_goals_against", "league_goals_against + ?", delta.League.GoalsAgainst).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", managerID)).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build manager record query: %w", err)
	}
	return query, args, nil
}

func profileFromRows(row managerTableModel, roster []managerPlayerTableModel, played []leaguePlayedTableModel) manager.Profile {
	profile := manager.Profile{
		ID:     row.ID,
		Name:   row.Name,
		Budget: row.Budget,
		Record: manager.Record{Wins: row.Wins, Draws: row.Draws, Losses: row.Losses},
		League: manager.LeagueRecord{
			Wins:         row.LeagueWins,
			Draws:        row.LeagueDraws,
			Losses:       row.LeagueLosses,
			Points:       row.LeaguePoints,
			GoalsFor:     row.LeagueGoalsFor,
			GoalsAgainst: row.LeagueGoalsAgainst,
		},
		Facilities: manager.Facilities{Stadium: row.StadiumLevel},
		Roster:     make([]manager.RosterPlayer, 0, len(roster)),
	}
	for _, p := range roster {
		profile.Roster = append(profile.Roster, manager.RosterPlayer{
			Player: player.Player{
				ID:       p.PlayerID,
				Name:     p.Name,
				Position: player.Position(p.Position),
				Overall:  p.Overall,
				Age:      p.Age,
			},
			Experience: p.Experience,
		})
	}
	if len(played) > 0 {
		profile.LeaguePlayedOn = make(map[string]string, len(played))
		for _, p := range played {
			profile.LeaguePlayedOn[p.OpponentID] = p.PlayedOn
		}
	}
	return profile
}
