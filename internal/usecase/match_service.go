package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/domain/player"
	"github.com/riskibarqy/football-manager/internal/platform/id"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

// authorityRole is the role this process simulates on behalf of.
const authorityRole = match.RoleHome

type ChallengeInput struct {
	ChallengerID  string
	OpponentID    string
	LeagueFixture bool
}

type LineupInput struct {
	MatchID   string
	ManagerID string
	PlayerIDs []string
	Formation string
	Tactic    string
}

type SubstitutionInput struct {
	MatchID     string
	ManagerID   string
	OutPlayerID string
	InPlayerID  string
}

// MatchService runs the networked match state machine. Every command derives
// the caller's role once from the stored record and applies a single
// conditional write.
type MatchService struct {
	store     match.Store
	managers  manager.Repository
	notifier  notification.Notifier
	simulator *Simulator
	settler   *SettlementService
	ids       id.Generator
	rules     match.Rules
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(
	store match.Store,
	managers manager.Repository,
	notifier notification.Notifier,
	simulator *Simulator,
	settler *SettlementService,
	ids id.Generator,
	rules match.Rules,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		store:     store,
		managers:  managers,
		notifier:  notifier,
		simulator: simulator,
		settler:   settler,
		ids:       ids,
		rules:     rules,
		logger:    logger.With("component", "match_service"),
		now:       time.Now,
	}
}

func (s *MatchService) Challenge(ctx context.Context, input ChallengeInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Challenge")
	defer span.End()

	input.ChallengerID = strings.TrimSpace(input.ChallengerID)
	input.OpponentID = strings.TrimSpace(input.OpponentID)
	if input.ChallengerID == "" {
		return match.Match{}, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	if input.OpponentID == "" {
		return match.Match{}, fmt.Errorf("%w: opponent_id is required", ErrInvalidInput)
	}
	if input.ChallengerID == input.OpponentID {
		return match.Match{}, fmt.Errorf("%w: cannot challenge yourself", ErrInvalidInput)
	}

	var challenger, opponent manager.Profile
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		challenger, err = s.requireProfile(ctx, input.ChallengerID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		opponent, err = s.requireProfile(ctx, input.OpponentID)
		return err
	})
	if err := p.Wait(); err != nil {
		return match.Match{}, err
	}

	now := s.now().UTC()
	if input.LeagueFixture && challenger.PlayedLeagueOn(opponent.ID, now.Format(time.DateOnly)) {
		return match.Match{}, fmt.Errorf("%w: league fixture against %s already played today", ErrConflict, opponent.Name)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	m := match.New(
		matchID,
		match.Side{ManagerID: challenger.ID, ManagerName: challenger.Name, Tactic: match.TacticBalanced},
		match.Side{ManagerID: opponent.ID, ManagerName: opponent.Name, Tactic: match.TacticBalanced},
		input.LeagueFixture,
		now,
	)
	if err := s.store.Create(ctx, m); err != nil {
		return match.Match{}, classifyMatchError(err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notification.Message{
			RecipientID: opponent.ID,
			Kind:        notification.KindChallenge,
			Text:        fmt.Sprintf("%s challenged you to a match", challenger.Name),
			Metadata: map[string]string{
				"matchId":       matchID,
				"challengerId":  challenger.ID,
				"leagueFixture": strconv.FormatBool(input.LeagueFixture),
			},
			CreatedAt: now,
		})
	}

	s.logger.InfoContext(ctx, "challenge created",
		"match_id", matchID,
		"home_manager_id", challenger.ID,
		"away_manager_id", opponent.ID,
		"league_fixture", input.LeagueFixture,
	)
	return m, nil
}

func (s *MatchService) Accept(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Accept")
	defer span.End()

	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.Accept(m, role)
	})
}

// ConfirmPrematch snapshots the caller's starting eleven and bench. The
// second confirmation kicks off and starts the simulator.
func (s *MatchService) ConfirmPrematch(ctx context.Context, input LineupInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ConfirmPrematch")
	defer span.End()

	current, role, err := s.load(ctx, input.MatchID, input.ManagerID)
	if err != nil {
		return match.Match{}, err
	}
	if !role.Participant() {
		return match.Match{}, classifyMatchError(match.ErrNotParticipant)
	}
	if current.State.Terminal() {
		return match.Match{}, classifyMatchError(errors.Wrapf(match.ErrInvalidTransition, "confirm prematch in state %s", current.State))
	}

	profile, err := s.requireProfile(ctx, strings.TrimSpace(input.ManagerID))
	if err != nil {
		return match.Match{}, err
	}
	lineup, err := BuildLineup(profile, input.PlayerIDs, input.Formation, input.Tactic)
	if err != nil {
		return match.Match{}, err
	}

	var started bool
	updated, err := s.transition(ctx, input.MatchID, input.ManagerID, func(m match.Match, role match.Role) (match.Patch, error) {
		patch, kicked, err := match.ConfirmPrematch(m, role, lineup, s.now())
		started = kicked
		return patch, err
	})
	if err != nil {
		return match.Match{}, err
	}
	if started {
		s.startSimulator(ctx, updated.ID)
	}
	return updated, nil
}

func (s *MatchService) SetTactic(ctx context.Context, matchID, managerID, rawTactic string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetTactic")
	defer span.End()

	tactic, err := match.ParseTactic(rawTactic)
	if err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.SetTactic(m, role, tactic)
	})
}

func (s *MatchService) ReadyForSecondHalf(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ReadyForSecondHalf")
	defer span.End()

	var started bool
	updated, err := s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		patch, kicked, err := match.ReadyForSecondHalf(m, role, s.rules, s.now())
		started = kicked
		return patch, err
	})
	if err != nil {
		return match.Match{}, err
	}
	if started {
		s.startSimulator(ctx, updated.ID)
	}
	return updated, nil
}

func (s *MatchService) RequestPause(ctx context.Context, matchID, managerID, reason string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RequestPause")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "tactical"
	}
	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.RequestPause(m, role, reason, s.rules, s.now())
	})
}

func (s *MatchService) Substitute(ctx context.Context, input SubstitutionInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Substitute")
	defer span.End()

	outID := strings.TrimSpace(input.OutPlayerID)
	inID := strings.TrimSpace(input.InPlayerID)
	if outID == "" || inID == "" {
		return match.Match{}, fmt.Errorf("%w: out_player_id and in_player_id are required", ErrInvalidInput)
	}
	return s.transition(ctx, input.MatchID, input.ManagerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.Substitute(m, role, outID, inID, s.now())
	})
}

func (s *MatchService) ReadyToResume(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ReadyToResume")
	defer span.End()

	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		patch, _, err := match.ReadyToResume(m, role, s.now())
		return patch, err
	})
}

// Forfeit cancels a match before kickoff, otherwise ends it 3-0 against the
// caller and runs forfeit settlement.
func (s *MatchService) Forfeit(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Forfeit")
	defer span.End()

	updated, err := s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.Forfeit(m, role, s.now())
	})
	if err != nil {
		return match.Match{}, err
	}
	if updated.State != match.StateFinished {
		return updated, nil
	}

	if s.simulator != nil {
		s.simulator.Stop(updated.ID)
	}
	if s.settler != nil {
		s.settler.SettleQuietly(ctx, updated.ID)
		if refreshed, ok, err := s.store.Get(ctx, updated.ID); err == nil && ok {
			updated = refreshed
		}
	}
	s.logger.InfoContext(ctx, "match forfeited", "match_id", updated.ID, "manager_id", managerID)
	return updated, nil
}

func (s *MatchService) Cancel(ctx context.Context, matchID, managerID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel")
	defer span.End()

	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.Cancel(m, role, s.now())
	})
}

func (s *MatchService) Spectate(ctx context.Context, matchID, managerID, name string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Spectate")
	defer span.End()

	managerID = strings.TrimSpace(managerID)
	name = strings.TrimSpace(name)
	if name == "" && managerID != "" {
		profile, err := s.requireProfile(ctx, managerID)
		if err != nil {
			return match.Match{}, err
		}
		name = profile.Name
	}
	return s.transition(ctx, matchID, managerID, func(m match.Match, role match.Role) (match.Patch, error) {
		return match.Spectate(m, role, managerID, name)
	})
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	m, ok, err := s.store.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, nil
}

// Subscribe streams the full record after every change until the returned
// function is called.
func (s *MatchService) Subscribe(ctx context.Context, matchID string, fn func(match.Match)) (func(), error) {
	if _, err := s.Get(ctx, matchID); err != nil {
		return nil, err
	}
	unsubscribe, err := s.store.Subscribe(ctx, matchID, fn)
	if err != nil {
		return nil, classifyMatchError(err)
	}
	return unsubscribe, nil
}

// Recover restarts simulators for live matches and settles any finished
// match whose settlement never ran.
func (s *MatchService) Recover(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Recover")
	defer span.End()

	playing, err := s.store.ListByStates(ctx, []match.State{match.StatePlaying}, time.Time{})
	if err != nil {
		return fmt.Errorf("list playing matches: %w", err)
	}
	for _, m := range playing {
		s.startSimulator(ctx, m.ID)
	}

	finished, err := s.store.ListByStates(ctx, []match.State{match.StateFinished}, time.Time{})
	if err != nil {
		return fmt.Errorf("list finished matches: %w", err)
	}
	p := pool.New().WithMaxGoroutines(4)
	pending := 0
	for _, m := range finished {
		if m.StatsProcessed || s.settler == nil {
			continue
		}
		pending++
		p.Go(func() {
			s.settler.SettleQuietly(ctx, m.ID)
		})
	}
	p.Wait()

	s.logger.InfoContext(ctx, "match recovery completed", "restarted", len(playing), "settled", pending)
	return nil
}

// BuildLineup resolves the chosen player ids against the manager's roster.
// Every roster player not starting goes to the bench.
func BuildLineup(profile manager.Profile, playerIDs []string, formation, rawTactic string) (match.Lineup, error) {
	ids, err := normalizeIDs(playerIDs)
	if err != nil {
		return match.Lineup{}, err
	}
	if len(ids) != match.SquadSize {
		return match.Lineup{}, fmt.Errorf("%w: starting eleven must contain exactly %d players", ErrInvalidInput, match.SquadSize)
	}
	formation = strings.TrimSpace(formation)
	if _, ok := match.LookupFormation(formation); !ok {
		return match.Lineup{}, fmt.Errorf("%w: unknown formation %q", ErrInvalidInput, formation)
	}
	tactic, err := match.ParseTactic(rawTactic)
	if err != nil {
		return match.Lineup{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	starters := make(map[string]struct{}, len(ids))
	squad := make([]player.Player, 0, len(ids))
	for _, playerID := range ids {
		rp, ok := profile.FindPlayer(playerID)
		if !ok {
			return match.Lineup{}, fmt.Errorf("%w: player %s is not in your roster", ErrInvalidInput, playerID)
		}
		starters[playerID] = struct{}{}
		squad = append(squad, rp.Player)
	}
	bench := make([]player.Player, 0, len(profile.Roster))
	for _, rp := range profile.Roster {
		if _, starting := starters[rp.ID]; !starting {
			bench = append(bench, rp.Player)
		}
	}

	lineup := match.Lineup{Squad: squad, Bench: bench, Formation: formation, Tactic: tactic}
	if err := lineup.Validate(); err != nil {
		return match.Lineup{}, classifyMatchError(err)
	}
	return lineup, nil
}

func (s *MatchService) transition(
	ctx context.Context,
	matchID, managerID string,
	fn func(m match.Match, role match.Role) (match.Patch, error),
) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return match.Match{}, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	updated, err := s.store.Transition(ctx, matchID, func(current match.Match) (match.Patch, error) {
		return fn(current, match.RoleOf(current, managerID))
	})
	if err != nil {
		return match.Match{}, classifyMatchError(err)
	}
	return updated, nil
}

func (s *MatchService) load(ctx context.Context, matchID, managerID string) (match.Match, match.Role, error) {
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return match.Match{}, match.RoleSpectator, fmt.Errorf("%w: manager id is required", ErrUnauthorized)
	}
	m, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, match.RoleSpectator, err
	}
	return m, match.RoleOf(m, managerID), nil
}

func (s *MatchService) requireProfile(ctx context.Context, managerID string) (manager.Profile, error) {
	profile, ok, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return manager.Profile{}, fmt.Errorf("%w: get manager %s: %w", ErrDependencyUnavailable, managerID, err)
	}
	if !ok {
		return manager.Profile{}, fmt.Errorf("%w: manager=%s", ErrNotFound, managerID)
	}
	return profile, nil
}

func (s *MatchService) startSimulator(ctx context.Context, matchID string) {
	if s.simulator == nil {
		return
	}
	if err := s.simulator.Start(ctx, matchID, authorityRole); err != nil {
		s.logger.ErrorContext(ctx, "start simulator failed", "match_id", matchID, "error", err)
	}
}

func normalizeIDs(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil, fmt.Errorf("%w: player id must not be empty", ErrInvalidInput)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, v)
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
