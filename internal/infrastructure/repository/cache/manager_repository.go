package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	basecache "github.com/riskibarqy/football-manager/internal/platform/cache"
)

type cachedProfile struct {
	value  manager.Profile
	exists bool
}

// ManagerRepository caches profile reads in front of another repository.
// Every write evicts the manager's entry before returning, including on error.
type ManagerRepository struct {
	next     manager.Repository
	profiles *basecache.Store[cachedProfile]
}

func NewManagerRepository(next manager.Repository, ttl time.Duration) *ManagerRepository {
	return &ManagerRepository{next: next, profiles: basecache.NewStore[cachedProfile](ttl)}
}

func profileKey(managerID string) string {
	return "manager:id:" + managerID
}

func (r *ManagerRepository) GetByID(ctx context.Context, managerID string) (manager.Profile, bool, error) {
	cached, err := r.profiles.GetOrLoad(ctx, profileKey(managerID), func(ctx context.Context) (cachedProfile, error) {
		item, exists, err := r.next.GetByID(ctx, managerID)
		if err != nil {
			return cachedProfile{}, err
		}
		return cachedProfile{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return manager.Profile{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

func (r *ManagerRepository) ApplyOutcome(ctx context.Context, managerID string, outcome manager.Outcome) error {
	defer r.evict(managerID)
	return r.next.ApplyOutcome(ctx, managerID, outcome)
}

func (r *ManagerRepository) AwardExperience(ctx context.Context, managerID string, xpByPlayer map[string]int) error {
	defer r.evict(managerID)
	return r.next.AwardExperience(ctx, managerID, xpByPlayer)
}

func (r *ManagerRepository) AwardRosterExperience(ctx context.Context, managerID string, xp int) error {
	defer r.evict(managerID)
	return r.next.AwardRosterExperience(ctx, managerID, xp)
}

func (r *ManagerRepository) AddBudget(ctx context.Context, managerID string, amount int64) error {
	defer r.evict(managerID)
	return r.next.AddBudget(ctx, managerID, amount)
}

// ListHistory is not cached; history grows with every settlement.
func (r *ManagerRepository) ListHistory(ctx context.Context, managerID string, limit int) ([]manager.MatchHistory, error) {
	return r.next.ListHistory(ctx, managerID, limit)
}

func (r *ManagerRepository) evict(managerID string) {
	r.profiles.Delete(profileKey(managerID))
}

var _ manager.Repository = (*ManagerRepository)(nil)
