package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo managers into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM managers`); err != nil {
		return fmt.Errorf("count managers for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range memory.SeedManagers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO managers (id, name, budget, stadium_level)
VALUES (:id, :name, :budget, :stadium_level)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":            m.ID,
			"name":          m.Name,
			"budget":        m.Budget,
			"stadium_level": m.Facilities.Stadium,
		})
		if err != nil {
			return fmt.Errorf("bind seed manager %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed manager %s: %w", m.ID, err)
		}

		for i, p := range m.Roster {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO manager_players (manager_id, player_id, name, position, overall, age, experience, sort_order)
VALUES (:manager_id, :player_id, :name, :position, :overall, :age, :experience, :sort_order)
ON CONFLICT (manager_id, player_id) DO NOTHING`, map[string]any{
				"manager_id": m.ID,
				"player_id":  p.ID,
				"name":       p.Name,
				"position":   string(p.Position),
				"overall":    p.Overall,
				"age":        p.Age,
				"experience": p.Experience,
				"sort_order": i,
			})
			if err != nil {
				return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
			}
			sqlQuery = tx.Rebind(sqlQuery)
			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("seed player %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
