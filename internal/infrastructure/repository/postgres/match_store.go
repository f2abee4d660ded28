package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	qb "github.com/riskibarqy/football-manager/internal/platform/querybuilder"
)

const (
	matchesTable         = "matches"
	matchChangesChannel  = "match_changes"
	matchSelectColumns   = "id, state, practice, revision, data, created_at, updated_at"
	matchReturningClause = "RETURNING " + matchSelectColumns
)

// MatchStore keeps each match as one JSONB document. Writes merge the patch
// into the document and a trigger publishes the id on match_changes.
type MatchStore struct {
	db  *sqlx.DB
	hub *changeHub
	now func() time.Time
}

// NewMatchStore returns a store without change notifications. Subscribe
// fails until EnableNotifications is called.
func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db, now: time.Now}
}

// Close stops the notification hub, if any.
func (s *MatchStore) Close() error {
	if s.hub == nil {
		return nil
	}
	return s.hub.close()
}

func (s *MatchStore) Create(ctx context.Context, m match.Match) error {
	item := m.Clone()
	item.Revision = 1
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now().UTC()
	}
	item.UpdatedAt = item.CreatedAt

	data, err := sonic.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}

	query, args, err := qb.InsertModel(matchesTable, matchInsertModel{
		ID:        item.ID,
		State:     string(item.State),
		Practice:  item.Practice,
		Revision:  item.Revision,
		Data:      string(data),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(match.ErrMatchExists, "match %s", item.ID)
		}
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (s *MatchStore) Get(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns).
		From(matchesTable).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	item, err := decodeMatch(row)
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (s *MatchStore) Update(ctx context.Context, id string, patch match.Patch) (match.Match, error) {
	return s.applyPatch(ctx, s.db, id, patch)
}

// Transition locks the row for the duration of fn so concurrent writers of
// the same match serialize on Postgres.
func (s *MatchStore) Transition(ctx context.Context, id string, fn match.TransitionFunc) (match.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Match{}, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Select(matchSelectColumns).
		From(matchesTable).
		Where(qb.Eq("id", id)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build lock match query: %w", err)
	}

	var row matchTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
		}
		return match.Match{}, fmt.Errorf("lock match: %w", err)
	}
	current, err := decodeMatch(row)
	if err != nil {
		return match.Match{}, err
	}

	patch, err := fn(current.Clone())
	if err != nil {
		return match.Match{}, err
	}
	if patch.IsEmpty() {
		if err := tx.Commit(); err != nil {
			return match.Match{}, fmt.Errorf("commit transition: %w", err)
		}
		return current, nil
	}

	updated, err := s.applyPatch(ctx, tx, id, patch)
	if err != nil {
		return match.Match{}, err
	}
	if err := tx.Commit(); err != nil {
		return match.Match{}, fmt.Errorf("commit transition: %w", err)
	}
	return updated, nil
}

func (s *MatchStore) Subscribe(ctx context.Context, id string, fn func(match.Match)) (func(), error) {
	if s.hub == nil {
		return nil, errors.New("match store has no change listener")
	}
	current, ok, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
	}
	return s.hub.subscribe(ctx, current, fn), nil
}

func (s *MatchStore) ListByStates(ctx context.Context, states []match.State, createdBefore time.Time) ([]match.Match, error) {
	if len(states) == 0 {
		return []match.Match{}, nil
	}

	conditions := []qb.Condition{qb.AnyOf("state", pq.Array(stateNames(states)))}
	if !createdBefore.IsZero() {
		conditions = append(conditions, qb.Lt("created_at", createdBefore))
	}
	query, args, err := qb.Select(matchSelectColumns).
		From(matchesTable).
		Where(conditions...).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by state: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := decodeMatch(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *MatchStore) DeleteClosedBefore(ctx context.Context, before time.Time) (int, error) {
	const query = `
DELETE FROM matches
WHERE state = ANY($1)
  AND updated_at < $2`

	closed := stateNames([]match.State{match.StateFinished, match.StateCancelled})
	res, err := s.db.ExecContext(ctx, query, pq.Array(closed), before)
	if err != nil {
		return 0, fmt.Errorf("delete closed matches: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete closed matches rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *MatchStore) applyPatch(ctx context.Context, q sqlx.QueryerContext, id string, patch match.Patch) (match.Match, error) {
	query, args, err := buildPatchQuery(id, patch, s.now().UTC())
	if err != nil {
		return match.Match{}, err
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
		}
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	return decodeMatch(row)
}

// buildPatchQuery merges the patch's top-level keys over the stored document.
// Patch and Match share JSON field names, so a set collection replaces the
// stored one wholesale.
func buildPatchQuery(id string, patch match.Patch, updatedAt time.Time) (string, []any, error) {
	patchJSON, err := sonic.Marshal(patch)
	if err != nil {
		return "", nil, fmt.Errorf("encode match patch: %w", err)
	}

	b := qb.Update(matchesTable).
		SetExpr("data", "data || ?::jsonb || jsonb_build_object('revision', revision + 1, 'updatedAt', ?::text)",
			string(patchJSON), updatedAt.Format(time.RFC3339Nano)).
		SetExpr("revision", "revision + 1").
		Set("updated_at", updatedAt)
	if patch.State != nil {
		b = b.Set("state", string(*patch.State))
	}

	query, args, err := b.Where(qb.Eq("id", id)).Suffix(matchReturningClause).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build update match query: %w", err)
	}
	return query, args, nil
}

func decodeMatch(row matchTableModel) (match.Match, error) {
	var item match.Match
	if err := sonic.Unmarshal(row.Data, &item); err != nil {
		return match.Match{}, fmt.Errorf("decode match %s: %w", row.ID, err)
	}
	item.ID = row.ID
	item.State = match.State(row.State)
	item.Revision = row.Revision
	item.CreatedAt = row.CreatedAt.UTC()
	item.UpdatedAt = row.UpdatedAt.UTC()
	return item, nil
}

func stateNames(states []match.State) []string {
	out := make([]string, 0, len(states))
	for _, state := range states {
		out = append(out, string(state))
	}
	return out
}
