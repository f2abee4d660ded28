package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
)

type ManagerRepository struct {
	mu        sync.RWMutex
	items     map[string]manager.Profile
	histories map[string][]manager.MatchHistory
}

func NewManagerRepository(seed []manager.Profile) *ManagerRepository {
	items := make(map[string]manager.Profile, len(seed))
	for _, item := range seed {
		items[item.ID] = item.Clone()
	}
	return &ManagerRepository{
		items:     items,
		histories: make(map[string][]manager.MatchHistory),
	}
}

func (r *ManagerRepository) GetByID(_ context.Context, managerID string) (manager.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[managerID]
	if !ok {
		return manager.Profile{}, false, nil
	}
	return item.Clone(), true, nil
}

// ApplyOutcome is a no-op when the match is already in the manager's history.
func (r *ManagerRepository) ApplyOutcome(_ context.Context, managerID string, outcome manager.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[managerID]
	if !ok {
		return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
	}
	for _, h := range r.histories[managerID] {
		if h.MatchID == outcome.History.MatchID {
			return nil
		}
	}

	item.ApplyOutcome(outcome)
	r.items[managerID] = item
	history := outcome.History
	history.Scorers = append([]string(nil), outcome.History.Scorers...)
	r.histories[managerID] = append([]manager.MatchHistory{history}, r.histories[managerID]...)
	return nil
}

func (r *ManagerRepository) AwardExperience(_ context.Context, managerID string, xpByPlayer map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[managerID]
	if !ok {
		return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
	}
	for i := range item.Roster {
		item.Roster[i].Experience += xpByPlayer[item.Roster[i].ID]
	}
	r.items[managerID] = item
	return nil
}

func (r *ManagerRepository) AwardRosterExperience(_ context.Context, managerID string, xp int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[managerID]
	if !ok {
		return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
	}
	for i := range item.Roster {
		item.Roster[i].Experience += xp
	}
	r.items[managerID] = item
	return nil
}

func (r *ManagerRepository) AddBudget(_ context.Context, managerID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[managerID]
	if !ok {
		return errors.Wrapf(manager.ErrManagerNotFound, "manager %s", managerID)
	}
	item.Budget += amount
	r.items[managerID] = item
	return nil
}

func (r *ManagerRepository) ListHistory(_ context.Context, managerID string, limit int) ([]manager.MatchHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.histories[managerID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]manager.MatchHistory(nil), items...), nil
}
