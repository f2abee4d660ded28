package manager

import "context"

// Repository is the manager profile provider consumed by the match core.
type Repository interface {
	GetByID(ctx context.Context, managerID string) (Profile, bool, error)
	ApplyOutcome(ctx context.Context, managerID string, outcome Outcome) error
	AwardExperience(ctx context.Context, managerID string, xpByPlayer map[string]int) error
	AwardRosterExperience(ctx context.Context, managerID string, xp int) error
	AddBudget(ctx context.Context, managerID string, amount int64) error
	ListHistory(ctx context.Context, managerID string, limit int) ([]MatchHistory, error)
}
