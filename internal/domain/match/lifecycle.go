package match

import (
	"fmt"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-manager/internal/domain/player"
)

// Lineup is a prematch confirmation: the starting XI in formation slot order,
// the bench drawn from the rest of the roster, a formation and a tactic.
type Lineup struct {
	Squad     []player.Player
	Bench     []player.Player
	Formation string
	Tactic    Tactic
}

const SquadSize = 11

func (l Lineup) Validate() error {
	if len(l.Squad) != SquadSize {
		return errors.Wrapf(ErrInvalidLineup, "expected %d starters, got %d", SquadSize, len(l.Squad))
	}
	if _, ok := LookupFormation(l.Formation); !ok {
		return errors.Wrapf(ErrUnknownFormation, "formation %q", l.Formation)
	}
	if !l.Tactic.Valid() {
		return errors.Wrapf(ErrUnknownTactic, "tactic %q", l.Tactic)
	}

	seen := make(map[string]struct{}, len(l.Squad)+len(l.Bench))
	for _, p := range append(slices.Clone(l.Squad), l.Bench...) {
		if err := p.Validate(); err != nil {
			return errors.Wrap(ErrInvalidLineup, err.Error())
		}
		if _, dup := seen[p.ID]; dup {
			return errors.Wrapf(ErrInvalidLineup, "player %s listed twice", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func requireParticipant(role Role) error {
	if !role.Participant() {
		return ErrNotParticipant
	}
	return nil
}

func invalidTransition(m Match, action string) error {
	return errors.Wrapf(ErrInvalidTransition, "%s in state %s", action, m.State)
}

func sidePatch(p *Patch, role Role, s Side) {
	if role == RoleHome {
		p.Home = &s
	} else {
		p.Away = &s
	}
}

func withEvent(m Match, ev Event) []Event {
	return append([]Event{ev}, m.Events...)
}

// Accept moves a challenge into prematch. Only the away side may accept.
func Accept(m Match, role Role) (Patch, error) {
	if role != RoleAway {
		return Patch{}, ErrNotParticipant
	}
	switch m.State {
	case StatePrematch:
		return Patch{}, nil
	case StateWaiting:
		return Patch{State: ptr(StatePrematch)}, nil
	default:
		return Patch{}, invalidTransition(m, "accept")
	}
}

// ConfirmPrematch stores the caller's lineup. When the opponent has already
// confirmed, the same write kicks the match off and reports started=true.
func ConfirmPrematch(m Match, role Role, lineup Lineup, now time.Time) (patch Patch, started bool, err error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, false, err
	}
	if m.State == StatePlaying || m.State == StateHalftime {
		return Patch{}, false, nil
	}
	if m.State != StatePrematch {
		return Patch{}, false, invalidTransition(m, "confirm prematch")
	}
	if err := lineup.Validate(); err != nil {
		return Patch{}, false, err
	}

	side := m.Side(role).clone()
	side.Squad = slices.Clone(lineup.Squad)
	side.Bench = slices.Clone(lineup.Bench)
	side.Formation = lineup.Formation
	side.Tactic = lineup.Tactic
	side.PrematchReady = true
	sidePatch(&patch, role, side)

	if !m.Side(role.Opponent()).PrematchReady {
		return patch, false, nil
	}

	patch.State = ptr(StatePlaying)
	patch.MatchStartTime = ptr(now)
	patch.SecondsElapsed = ptr(0)
	patch.MinuteElapsed = ptr(0)
	patch.Events = withEvent(m, Event{Minute: 0, Kind: EventKickoff, Text: "0' Kick off", At: now})
	return patch, true, nil
}

// Kickoff starts a match sitting in ready, which is where practice matches begin.
func Kickoff(m Match, role Role, now time.Time) (Patch, error) {
	if role != RoleHome {
		return Patch{}, ErrNotAuthority
	}
	switch m.State {
	case StatePlaying, StateHalftime:
		return Patch{}, nil
	case StateReady:
	default:
		return Patch{}, invalidTransition(m, "kickoff")
	}
	return Patch{
		State:          ptr(StatePlaying),
		MatchStartTime: ptr(now),
		SecondsElapsed: ptr(0),
		MinuteElapsed:  ptr(0),
		Events:         withEvent(m, Event{Minute: 0, Kind: EventKickoff, Text: "0' Kick off", At: now}),
	}, nil
}

func SetTactic(m Match, role Role, tactic Tactic) (Patch, error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, err
	}
	if !tactic.Valid() {
		return Patch{}, errors.Wrapf(ErrUnknownTactic, "tactic %q", tactic)
	}
	if m.State.Terminal() {
		return Patch{}, invalidTransition(m, "set tactic")
	}
	side := m.Side(role).clone()
	if side.Tactic == tactic {
		return Patch{}, nil
	}
	side.Tactic = tactic
	var patch Patch
	sidePatch(&patch, role, side)
	return patch, nil
}

// ReadyForSecondHalf records the caller's readiness. When both sides are ready
// the match resumes with the clock re-anchored at half time, so the break
// itself never counts as played time.
func ReadyForSecondHalf(m Match, role Role, rules Rules, now time.Time) (patch Patch, started bool, err error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, false, err
	}
	if m.State == StatePlaying && m.SecondHalfStarted {
		return Patch{}, false, nil
	}
	if m.State != StateHalftime {
		return Patch{}, false, invalidTransition(m, "ready for second half")
	}

	side := m.Side(role).clone()
	side.SecondHalfReady = true
	sidePatch(&patch, role, side)
	if !m.Side(role.Opponent()).SecondHalfReady {
		return patch, false, nil
	}

	minute := MinuteFor(rules.HalfTimeSeconds)
	patch.State = ptr(StatePlaying)
	patch.SecondHalfStarted = ptr(true)
	patch.MatchStartTime = ptr(now.Add(-time.Duration(rules.HalfTimeSeconds) * time.Second))
	patch.Events = withEvent(m, Event{
		Minute: minute,
		Kind:   EventSecondHalf,
		Text:   fmt.Sprintf("%d' Second half underway", minute),
		At:     now,
	})
	return patch, true, nil
}

// RequestPause opens a substitution window. A side past its quota is rejected
// without producing any write.
func RequestPause(m Match, role Role, reason string, rules Rules, now time.Time) (Patch, error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, err
	}
	if m.State != StatePlaying {
		return Patch{}, invalidTransition(m, "pause")
	}
	if m.Paused {
		return Patch{}, ErrAlreadyPaused
	}
	used := m.PausesUsed(role)
	if used >= rules.PauseQuota {
		return Patch{}, errors.Wrapf(ErrPauseQuotaExceeded, "%s side used %d of %d", role, used, rules.PauseQuota)
	}

	side := m.Side(role)
	minute := MinuteFor(rules.ClockSeconds(m, now))
	patch := Patch{
		Paused:                   ptr(true),
		PausedBy:                 ptr(side.ManagerID),
		PauseReason:              ptr(reason),
		PauseStartTime:           ptr(now),
		PauseEndTime:             ptr(now.Add(rules.PauseDuration)),
		HomeResumeReady:          ptr(false),
		AwayResumeReady:          ptr(false),
		HomeSubstitutedThisPause: ptr(false),
		AwaySubstitutedThisPause: ptr(false),
		Events: withEvent(m, Event{
			Minute: minute,
			Kind:   EventPause,
			Side:   role,
			Text:   fmt.Sprintf("%d' Play paused by %s", minute, side.ManagerName),
			At:     now,
		}),
	}
	if role == RoleHome {
		patch.HomePausesUsed = ptr(used + 1)
	} else {
		patch.AwayPausesUsed = ptr(used + 1)
	}
	return patch, nil
}

// Substitute swaps a starter for a bench player while paused. Each side gets
// one substitution per pause and a substituted-off player never returns.
func Substitute(m Match, role Role, outID, inID string, now time.Time) (Patch, error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, err
	}
	if !m.Paused {
		return Patch{}, ErrNotPaused
	}
	used := m.HomeSubstitutedThisPause
	if role == RoleAway {
		used = m.AwaySubstitutedThisPause
	}
	if used {
		return Patch{}, errors.Wrap(ErrSubstitutionNotAllowed, "one substitution per pause")
	}
	if m.IsSubstituted(outID) || m.IsSubstituted(inID) {
		return Patch{}, errors.Wrap(ErrSubstitutionNotAllowed, "player already substituted")
	}

	side := m.Side(role).clone()
	outIdx := slices.IndexFunc(side.Squad, func(p player.Player) bool { return p.ID == outID })
	if outIdx < 0 {
		return Patch{}, errors.Wrapf(ErrSubstitutionNotAllowed, "player %s is not on the pitch", outID)
	}
	inIdx := slices.IndexFunc(side.Bench, func(p player.Player) bool { return p.ID == inID })
	if inIdx < 0 {
		return Patch{}, errors.Wrapf(ErrSubstitutionNotAllowed, "player %s is not on the bench", inID)
	}

	outgoing := side.Squad[outIdx]
	incoming := side.Bench[inIdx]
	side.Squad[outIdx] = incoming
	side.Bench = slices.Delete(side.Bench, inIdx, inIdx+1)

	minute := m.MinuteElapsed
	patch := Patch{
		SubstitutedPlayerIDs: append(slices.Clone(m.SubstitutedPlayerIDs), outID),
		Events: withEvent(m, Event{
			Minute:   minute,
			Kind:     EventSubstitution,
			Side:     role,
			PlayerID: incoming.ID,
			Text:     fmt.Sprintf("%d' Substitution for %s: %s replaces %s", minute, side.ManagerName, incoming.Name, outgoing.Name),
			At:       now,
		}),
	}
	sidePatch(&patch, role, side)
	if role == RoleHome {
		patch.HomeSubstitutedThisPause = ptr(true)
	} else {
		patch.AwaySubstitutedThisPause = ptr(true)
	}
	return patch, nil
}

// ReadyToResume flags the caller as ready; once both flags are set the match resumes.
func ReadyToResume(m Match, role Role, now time.Time) (patch Patch, resumed bool, err error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, false, err
	}
	if !m.Paused {
		return Patch{}, false, nil
	}

	homeReady, awayReady := m.HomeResumeReady, m.AwayResumeReady
	if role == RoleHome {
		homeReady = true
	} else {
		awayReady = true
	}
	if homeReady && awayReady {
		return Resume(m, now), true, nil
	}
	if role == RoleHome {
		return Patch{HomeResumeReady: ptr(true)}, false, nil
	}
	return Patch{AwayResumeReady: ptr(true)}, false, nil
}

// PauseExpired reports whether the pause window has run out at now.
func PauseExpired(m Match, now time.Time) bool {
	return m.Paused && !now.Before(m.PauseEndTime)
}

// Resume clears the pause and shifts matchStartTime forward by the time spent
// paused, keeping the catch-up clock from racing past the pause.
func Resume(m Match, now time.Time) Patch {
	if !m.Paused {
		return Patch{}
	}
	pausedFor := now.Sub(m.PauseStartTime)
	if pausedFor < 0 {
		pausedFor = 0
	}
	minute := m.MinuteElapsed
	return Patch{
		Paused:          ptr(false),
		HomeResumeReady: ptr(false),
		AwayResumeReady: ptr(false),
		MatchStartTime:  ptr(m.MatchStartTime.Add(pausedFor)),
		Events: withEvent(m, Event{
			Minute: minute,
			Kind:   EventResume,
			Text:   fmt.Sprintf("%d' Play resumes", minute),
			At:     now,
		}),
	}
}

// Forfeit cancels a match that has not kicked off, or ends a live one 3-0 in
// favour of the opponent.
func Forfeit(m Match, role Role, now time.Time) (Patch, error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, err
	}
	side := m.Side(role)
	switch {
	case m.State.Terminal():
		if m.ForfeitedBy == side.ManagerID {
			return Patch{}, nil
		}
		return Patch{}, invalidTransition(m, "forfeit")
	case m.State.PreKickoff():
		return Patch{
			State:       ptr(StateCancelled),
			CancelledAt: ptr(now),
			ForfeitedBy: ptr(side.ManagerID),
		}, nil
	}

	home, away := 3, 0
	if role == RoleHome {
		home, away = 0, 3
	}
	minute := m.MinuteElapsed
	return Patch{
		State:       ptr(StateFinished),
		HomeScore:   ptr(home),
		AwayScore:   ptr(away),
		Paused:      ptr(false),
		ForfeitedBy: ptr(side.ManagerID),
		FinishedAt:  ptr(now),
		Events: withEvent(m, Event{
			Minute: minute,
			Kind:   EventForfeit,
			Side:   role,
			Text:   fmt.Sprintf("%d' %s forfeits the match", minute, side.ManagerName),
			At:     now,
		}),
	}, nil
}

// Cancel withdraws a match before kickoff.
func Cancel(m Match, role Role, now time.Time) (Patch, error) {
	if err := requireParticipant(role); err != nil {
		return Patch{}, err
	}
	if m.State == StateCancelled {
		return Patch{}, nil
	}
	if !m.State.PreKickoff() {
		return Patch{}, invalidTransition(m, "cancel")
	}
	return Patch{State: ptr(StateCancelled), CancelledAt: ptr(now)}, nil
}

// Spectate records a read-only viewer. Participants cannot spectate their own match.
func Spectate(m Match, role Role, managerID, name string) (Patch, error) {
	if role != RoleSpectator || managerID == "" {
		return Patch{}, errors.Wrap(ErrInvalidTransition, "participants cannot spectate")
	}
	if !m.State.Live() {
		return Patch{}, invalidTransition(m, "spectate")
	}
	if current, ok := m.Spectators[managerID]; ok && current == name {
		return Patch{}, nil
	}
	spectators := make(map[string]string, len(m.Spectators)+1)
	for k, v := range m.Spectators {
		spectators[k] = v
	}
	spectators[managerID] = name
	return Patch{Spectators: spectators}, nil
}

// ExpireStale cancels a match abandoned before kickoff.
func ExpireStale(m Match, now time.Time) Patch {
	if !m.State.PreKickoff() {
		return Patch{}
	}
	return Patch{State: ptr(StateCancelled), CancelledAt: ptr(now)}
}

// ForceFinish ends an abandoned live match with the clock pinned to full time.
func ForceFinish(m Match, rules Rules, now time.Time) Patch {
	if m.State.Terminal() {
		return Patch{}
	}
	minute := MinuteFor(rules.FullTimeSeconds)
	return Patch{
		State:          ptr(StateFinished),
		SecondsElapsed: ptr(rules.FullTimeSeconds),
		MinuteElapsed:  ptr(minute),
		Paused:         ptr(false),
		FinishedAt:     ptr(now),
		Events: withEvent(m, Event{
			Minute: minute,
			Kind:   EventFulltime,
			Text:   fmt.Sprintf("%d' Full time (abandoned): %d-%d", minute, m.HomeScore, m.AwayScore),
			At:     now,
		}),
	}
}

// MarkSettled claims the settlement guard. It fails if another caller already did.
func MarkSettled(m Match) (Patch, error) {
	if m.StatsProcessed {
		return Patch{}, ErrAlreadySettled
	}
	if m.State != StateFinished {
		return Patch{}, invalidTransition(m, "settle")
	}
	return Patch{StatsProcessed: ptr(true)}, nil
}
