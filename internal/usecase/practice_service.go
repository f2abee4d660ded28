package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/domain/player"
	"github.com/riskibarqy/football-manager/internal/platform/id"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const (
	practiceOpponentID   = "ai"
	practiceOpponentName = "Practice XI"
	practiceFormation    = "4-3-3"
	practiceRatingSpread = 3
)

var practiceStarters = []player.Position{
	player.PositionGK,
	player.PositionLB, player.PositionCB, player.PositionCB, player.PositionRB,
	player.PositionCM, player.PositionCDM, player.PositionCAM,
	player.PositionLW, player.PositionST, player.PositionRW,
}

var practiceBench = []player.Position{
	player.PositionGK, player.PositionCB, player.PositionCM, player.PositionST,
}

type PracticeInput struct {
	ManagerID string
	PlayerIDs []string
	Formation string
	Tactic    string
}

// PracticeService runs matches against a generated opponent on a store that
// never leaves the process. The state machine and simulator are the same ones
// networked matches use.
type PracticeService struct {
	store     match.Store
	managers  manager.Repository
	simulator *Simulator
	ids       id.Generator
	rules     match.Rules
	logger    *logging.Logger
	now       func() time.Time
	jitter    func(n int) int
}

func NewPracticeService(store match.Store, managers manager.Repository, simulator *Simulator, ids id.Generator, rules match.Rules, logger *logging.Logger) *PracticeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PracticeService{
		store:     store,
		managers:  managers,
		simulator: simulator,
		ids:       ids,
		rules:     rules,
		logger:    logger.With("component", "practice"),
		now:       time.Now,
		jitter:    rand.IntN,
	}
}

// Start creates a practice match in state ready.
func (s *PracticeService) Start(ctx context.Context, input PracticeInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.Start")
	defer span.End()

	managerID := strings.TrimSpace(input.ManagerID)
	if managerID == "" {
		return match.Match{}, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	profile, ok, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: get manager %s: %w", ErrDependencyUnavailable, managerID, err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: manager=%s", ErrNotFound, managerID)
	}

	lineup, err := BuildLineup(profile, input.PlayerIDs, input.Formation, input.Tactic)
	if err != nil {
		return match.Match{}, err
	}
	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	home := match.Side{
		ManagerID:     profile.ID,
		ManagerName:   profile.Name,
		Squad:         lineup.Squad,
		Bench:         lineup.Bench,
		Formation:     lineup.Formation,
		Tactic:        lineup.Tactic,
		PrematchReady: true,
	}
	now := s.now().UTC()
	m := match.New(matchID, home, s.opponent(matchID, match.TeamStrength(lineup.Squad)), false, now)
	m.Practice = true
	m.State = match.StateReady

	if err := s.store.Create(ctx, m); err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	s.logger.InfoContext(ctx, "practice match created", "match_id", matchID, "manager_id", managerID)
	return m, nil
}

// Kickoff starts the clock and the simulator.
func (s *PracticeService) Kickoff(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.Kickoff")
	defer span.End()

	var started bool
	updated, err := s.transition(ctx, matchID, managerID, func(m match.Match) (match.Patch, error) {
		patch, err := match.Kickoff(m, match.RoleHome, s.now())
		started = patch.State != nil
		return patch, err
	})
	if err != nil {
		return match.Match{}, err
	}
	if started {
		if err := s.startSimulator(ctx, updated.ID); err != nil {
			return match.Match{}, err
		}
	}
	return updated, nil
}

// ReadyForSecondHalf readies the owner. The generated side is always ready,
// so the second half starts in the same write.
func (s *PracticeService) ReadyForSecondHalf(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.ReadyForSecondHalf")
	defer span.End()

	var started bool
	updated, err := s.transition(ctx, matchID, managerID, func(m match.Match) (match.Patch, error) {
		now := s.now()
		aiPatch, _, err := match.ReadyForSecondHalf(m, match.RoleAway, s.rules, now)
		if err != nil {
			return match.Patch{}, err
		}
		next := m.Clone()
		aiPatch.Apply(&next)

		patch, kicked, err := match.ReadyForSecondHalf(next, match.RoleHome, s.rules, now)
		if err != nil {
			return match.Patch{}, err
		}
		started = kicked
		if patch.Away == nil {
			patch.Away = aiPatch.Away
		}
		return patch, nil
	})
	if err != nil {
		return match.Match{}, err
	}
	if started {
		if err := s.startSimulator(ctx, updated.ID); err != nil {
			return match.Match{}, err
		}
	}
	return updated, nil
}

func (s *PracticeService) RequestPause(ctx context.Context, matchID, managerID, reason string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.RequestPause")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "tactical"
	}
	return s.transition(ctx, matchID, managerID, func(m match.Match) (match.Patch, error) {
		return match.RequestPause(m, match.RoleHome, reason, s.rules, s.now())
	})
}

func (s *PracticeService) Substitute(ctx context.Context, input SubstitutionInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.Substitute")
	defer span.End()

	outID := strings.TrimSpace(input.OutPlayerID)
	inID := strings.TrimSpace(input.InPlayerID)
	if outID == "" || inID == "" {
		return match.Match{}, fmt.Errorf("%w: out_player_id and in_player_id are required", ErrInvalidInput)
	}
	return s.transition(ctx, input.MatchID, input.ManagerID, func(m match.Match) (match.Patch, error) {
		return match.Substitute(m, match.RoleHome, outID, inID, s.now())
	})
}

// ReadyToResume ends the owner's pause right away; the generated side never
// holds play up.
func (s *PracticeService) ReadyToResume(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.ReadyToResume")
	defer span.End()

	return s.transition(ctx, matchID, managerID, func(m match.Match) (match.Patch, error) {
		now := s.now()
		aiPatch, _, err := match.ReadyToResume(m, match.RoleAway, now)
		if err != nil {
			return match.Patch{}, err
		}
		next := m.Clone()
		aiPatch.Apply(&next)

		patch, _, err := match.ReadyToResume(next, match.RoleHome, now)
		return patch, err
	})
}

// Get returns the practice match to its owner only.
func (s *PracticeService) Get(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PracticeService.Get")
	defer span.End()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return match.Match{}, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	m, ok, err := s.store.Get(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: practice match=%s", ErrNotFound, matchID)
	}
	if err := requireOwner(m, managerID); err != nil {
		return match.Match{}, err
	}
	return m, nil
}

func (s *PracticeService) Subscribe(ctx context.Context, matchID, managerID string, fn func(match.Match)) (func(), error) {
	if _, err := s.Get(ctx, matchID, managerID); err != nil {
		return nil, err
	}
	unsubscribe, err := s.store.Subscribe(ctx, strings.TrimSpace(matchID), fn)
	if err != nil {
		return nil, classifyMatchError(err)
	}
	return unsubscribe, nil
}

// transition runs fn as the home side after checking the caller owns the match.
func (s *PracticeService) transition(ctx context.Context, matchID, managerID string, fn func(m match.Match) (match.Patch, error)) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return match.Match{}, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	updated, err := s.store.Transition(ctx, matchID, func(current match.Match) (match.Patch, error) {
		if err := requireOwner(current, managerID); err != nil {
			return match.Patch{}, err
		}
		return fn(current)
	})
	if err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	return updated, nil
}

func (s *PracticeService) startSimulator(ctx context.Context, matchID string) error {
	if s.simulator == nil {
		return nil
	}
	return s.simulator.Start(ctx, matchID, match.RoleHome)
}

func requireOwner(m match.Match, managerID string) error {
	if match.RoleOf(m, managerID) != match.RoleHome {
		return fmt.Errorf("%w: practice match %s belongs to another manager", ErrForbidden, m.ID)
	}
	return nil
}

// opponent builds the synthetic side rated around the manager's starting eleven.
func (s *PracticeService) opponent(matchID string, strength float64) match.Side {
	base := int(math.Round(strength))
	build := func(positions []player.Position, tag string, offset int) []player.Player {
		out := make([]player.Player, 0, len(positions))
		for i, pos := range positions {
			rating := base + s.jitter(2*practiceRatingSpread+1) - practiceRatingSpread - offset
			out = append(out, player.Player{
				ID:       fmt.Sprintf("%s-%s-%s%d", practiceOpponentID, matchID, tag, i+1),
				Name:     fmt.Sprintf("AI %s %d", pos, i+1),
				Position: pos,
				Overall:  max(1, min(99, rating)),
				Age:      25,
			})
		}
		return out
	}

	return match.Side{
		ManagerID:     practiceOpponentID,
		ManagerName:   practiceOpponentName,
		Squad:         build(practiceStarters, "", 0),
		Bench:         build(practiceBench, "b", 5),
		Formation:     practiceFormation,
		Tactic:        match.TacticBalanced,
		PrematchReady: true,
		AI:            true,
	}
}
