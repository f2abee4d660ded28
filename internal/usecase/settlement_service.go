package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const (
	BaseWinReward       int64 = 1_000_000
	GoalExperience            = 50
	WinnerRosterBonusXP       = 100
)

var stadiumBonus = [...]int64{0, 2_000_000, 5_000_000, 10_000_000, 20_000_000}

// StadiumBonus returns the win bonus for a stadium level, clamped to 0..4.
func StadiumBonus(level int) int64 {
	level = max(0, min(level, len(stadiumBonus)-1))
	return stadiumBonus[level]
}

// SettlementService finishes a match exactly once: the statsProcessed guard is
// claimed before any profile write, so a crash after the guard can lose a
// reward but never pays it twice.
type SettlementService struct {
	store    match.Store
	managers manager.Repository
	notifier notification.Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewSettlementService(store match.Store, managers manager.Repository, notifier notification.Notifier, logger *logging.Logger) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		store:    store,
		managers: managers,
		notifier: notifier,
		logger:   logger.With("component", "settlement"),
		now:      time.Now,
	}
}

// Settle claims the guard, writes the report and applies both managers'
// outcomes. Calling it on an already settled match returns an error wrapping
// match.ErrAlreadySettled and changes nothing.
func (s *SettlementService) Settle(ctx context.Context, matchID string) (match.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Settle")
	defer span.End()

	settled, err := s.store.Transition(ctx, matchID, match.MarkSettled)
	if err != nil {
		return match.Report{}, classifyMatchError(err)
	}

	report := match.BuildReport(settled)
	if _, err := s.store.Update(ctx, matchID, match.Patch{Report: &report}); err != nil {
		s.logger.ErrorContext(ctx, "write match report failed", "match_id", matchID, "error", err)
	}

	if settled.Practice {
		s.logger.InfoContext(ctx, "practice match settled", "match_id", matchID, "outcome", report.Outcome)
		return report, nil
	}

	s.applyOutcomes(ctx, settled, report)
	s.logger.InfoContext(ctx, "match settled",
		"match_id", matchID,
		"outcome", report.Outcome,
		"home_score", settled.HomeScore,
		"away_score", settled.AwayScore,
		"forfeit", report.Forfeit,
	)
	return report, nil
}

// SettleQuietly is the SettleFunc used by simulators and the sweep.
func (s *SettlementService) SettleQuietly(ctx context.Context, matchID string) {
	if _, err := s.Settle(ctx, matchID); err != nil && !errors.Is(err, match.ErrAlreadySettled) {
		s.logger.ErrorContext(ctx, "settle match failed", "match_id", matchID, "error", err)
	}
}

func (s *SettlementService) applyOutcomes(ctx context.Context, m match.Match, report match.Report) {
	winner := match.Role("")
	switch report.Outcome {
	case match.OutcomeHomeWin:
		winner = match.RoleHome
	case match.OutcomeAwayWin:
		winner = match.RoleAway
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, role := range []match.Role{match.RoleHome, match.RoleAway} {
		p.Go(func(ctx context.Context) error {
			if err := s.settleSide(ctx, m, report, role, role == winner); err != nil {
				s.logger.ErrorContext(ctx, "settlement write failed, needs reconciliation",
					"match_id", m.ID,
					"manager_id", m.Side(role).ManagerID,
					"error", err,
				)
				return err
			}
			return nil
		})
	}
	_ = p.Wait()
}

func (s *SettlementService) settleSide(ctx context.Context, m match.Match, report match.Report, role match.Role, won bool) error {
	side := m.Side(role)
	opponent := m.Side(role.Opponent())
	goalsFor, goalsAgainst := m.HomeScore, m.AwayScore
	if role == match.RoleAway {
		goalsFor, goalsAgainst = goalsAgainst, goalsFor
	}

	playedAt := s.now().UTC()
	if m.FinishedAt != nil {
		playedAt = m.FinishedAt.UTC()
	}
	result := manager.ResultFor(goalsFor, goalsAgainst)
	outcome := manager.Outcome{
		History: manager.MatchHistory{
			MatchID:       m.ID,
			OpponentID:    opponent.ManagerID,
			OpponentName:  opponent.ManagerName,
			GoalsFor:      goalsFor,
			GoalsAgainst:  goalsAgainst,
			Result:        result,
			LeagueFixture: m.LeagueFixture,
			Forfeit:       report.Forfeit,
			Summary:       report.Summary,
			Scorers:       scorerNames(report, role),
			PlayedAt:      playedAt,
		},
		PlayedOn: playedAt.Format(time.DateOnly),
	}

	var errs error
	if err := s.managers.ApplyOutcome(ctx, side.ManagerID, outcome); err != nil {
		errs = errors.CombineErrors(errs, fmt.Errorf("apply outcome: %w", err))
	}

	var reward int64
	if !report.Forfeit {
		if xp := goalExperience(m, side.ManagerID); len(xp) > 0 {
			if err := s.managers.AwardExperience(ctx, side.ManagerID, xp); err != nil {
				errs = errors.CombineErrors(errs, fmt.Errorf("award goal experience: %w", err))
			}
		}
		if won {
			reward, errs = s.payWinner(ctx, side.ManagerID, errs)
		}
	}

	s.notify(ctx, m, report, side, opponent, result, reward)
	return errs
}

func (s *SettlementService) payWinner(ctx context.Context, managerID string, errs error) (int64, error) {
	profile, ok, err := s.managers.GetByID(ctx, managerID)
	switch {
	case err != nil:
		return 0, errors.CombineErrors(errs, fmt.Errorf("load winner profile: %w", err))
	case !ok:
		return 0, errors.CombineErrors(errs, fmt.Errorf("winner %s: %w", managerID, ErrNotFound))
	}

	reward := BaseWinReward + StadiumBonus(profile.Facilities.Stadium)
	if err := s.managers.AddBudget(ctx, managerID, reward); err != nil {
		errs = errors.CombineErrors(errs, fmt.Errorf("add win reward: %w", err))
		reward = 0
	}
	if err := s.managers.AwardRosterExperience(ctx, managerID, WinnerRosterBonusXP); err != nil {
		errs = errors.CombineErrors(errs, fmt.Errorf("award roster experience: %w", err))
	}
	return reward, errs
}

func (s *SettlementService) notify(ctx context.Context, m match.Match, report match.Report, side, opponent match.Side, result manager.Result, reward int64) {
	if s.notifier == nil {
		return
	}

	kind := notification.KindMatchFinished
	text := fmt.Sprintf("Full time against %s: %s", opponent.ManagerName, report.Summary)
	if report.Forfeit {
		kind = notification.KindForfeit
		text = fmt.Sprintf("Match against %s ended by forfeit: %s", opponent.ManagerName, report.Summary)
	}
	if reward > 0 {
		text += fmt.Sprintf(" You earned $%s.", humanize.Comma(reward))
	}

	s.notifier.Notify(ctx, notification.Message{
		RecipientID: side.ManagerID,
		Kind:        kind,
		Text:        text,
		Metadata: map[string]string{
			"matchId":  m.ID,
			"result":   string(result),
			"score":    fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore),
			"reward":   strconv.FormatInt(reward, 10),
			"opponent": opponent.ManagerID,
		},
		CreatedAt: s.now().UTC(),
	})
}

func goalExperience(m match.Match, ownerID string) map[string]int {
	out := make(map[string]int)
	for playerID, scorer := range m.Goalscorers {
		if scorer.OwnerID == ownerID && scorer.Goals > 0 {
			out[playerID] = scorer.Goals * GoalExperience
		}
	}
	return out
}

func scorerNames(report match.Report, role match.Role) []string {
	out := make([]string, 0, len(report.Scorers))
	for _, line := range report.Scorers {
		if line.Side != role {
			continue
		}
		name := line.Name
		if line.Goals > 1 {
			name = fmt.Sprintf("%s (%d)", line.Name, line.Goals)
		}
		out = append(out, name)
	}
	return out
}
