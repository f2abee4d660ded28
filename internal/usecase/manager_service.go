package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/platform/resilience"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	dashboardRecent     = 5
)

// ManagerDashboard is the manager's own view: profile counters plus the most
// recent match log entries.
type ManagerDashboard struct {
	Profile manager.Profile
	Recent  []manager.MatchHistory
}

// Dashboard loads for the same manager share one repository round trip.
type ManagerService struct {
	managers   manager.Repository
	dashboards resilience.Group[ManagerDashboard]
}

func NewManagerService(managers manager.Repository) *ManagerService {
	return &ManagerService{managers: managers}
}

func (s *ManagerService) Dashboard(ctx context.Context, managerID string) (ManagerDashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ManagerService.Dashboard")
	defer span.End()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return ManagerDashboard{}, fmt.Errorf("%w: manager_id is required", ErrUnauthorized)
	}

	dashboard, err, _ := s.dashboards.Do(managerID, func() (ManagerDashboard, error) {
		return s.loadDashboard(ctx, managerID)
	})
	return dashboard, err
}

func (s *ManagerService) loadDashboard(ctx context.Context, managerID string) (ManagerDashboard, error) {
	profile, ok, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("%w: get manager: %w", ErrDependencyUnavailable, err)
	}
	if !ok {
		return ManagerDashboard{}, fmt.Errorf("%w: manager=%s", ErrNotFound, managerID)
	}

	recent, err := s.managers.ListHistory(ctx, managerID, dashboardRecent)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("%w: list history: %w", ErrDependencyUnavailable, err)
	}
	return ManagerDashboard{Profile: profile, Recent: recent}, nil
}

// History returns the newest entries first. A non-positive limit uses the
// default; larger limits are capped.
func (s *ManagerService) History(ctx context.Context, managerID string, limit int) ([]manager.MatchHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ManagerService.History")
	defer span.End()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return nil, fmt.Errorf("%w: manager_id is required", ErrUnauthorized)
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	items, err := s.managers.ListHistory(ctx, managerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list history: %w", ErrDependencyUnavailable, err)
	}
	return items, nil
}
