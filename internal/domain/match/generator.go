package match

import (
	"fmt"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

// Random is the subset of *rand.Rand the generator draws from.
type Random interface {
	Float64() float64
	IntN(n int) int
}

const (
	goalThreshold    = 0.04
	shotThreshold    = 0.10
	buildupThreshold = 0.18

	forwardShare    = 0.70
	midfielderShare = 0.95
)

// GenerateEvent performs one weighted draw for the tick at minute. Goals are
// attributed by MatchHomeChance; shots and buildups pick a side 50/50.
func GenerateEvent(m Match, minute int, rng Random, at time.Time) (Event, bool) {
	r := rng.Float64()
	switch {
	case r < goalThreshold:
		return goalEvent(m, minute, rng, at)
	case r < shotThreshold:
		return shotEvent(m, minute, rng, at)
	case r < buildupThreshold:
		return buildupEvent(m, minute, rng, at)
	default:
		return Event{}, false
	}
}

func goalEvent(m Match, minute int, rng Random, at time.Time) (Event, bool) {
	role := RoleAway
	if rng.Float64() < MatchHomeChance(m) {
		role = RoleHome
	}
	side := m.Side(role)
	scorer, ok := pickScorer(m, role, rng)
	if !ok {
		return Event{}, false
	}
	return Event{
		Minute:   minute,
		Kind:     EventGoal,
		Side:     role,
		PlayerID: scorer.ID,
		Text:     fmt.Sprintf("%d' GOAL! %s scores for %s", minute, scorer.Name, side.ManagerName),
		At:       at,
	}, true
}

func shotEvent(m Match, minute int, rng Random, at time.Time) (Event, bool) {
	role := coinFlip(rng)
	shooter, ok := pick(rng, eligible(m, role, func(p player.Player) bool { return p.Position.CanShoot() }))
	if !ok {
		shooter, ok = pick(rng, eligible(m, role, outfield))
		if !ok {
			return Event{}, false
		}
	}

	ev := Event{Minute: minute, Side: role, PlayerID: shooter.ID, At: at}
	if keeper, hasKeeper := goalkeeper(m, role.Opponent()); hasKeeper {
		ev.Kind = EventSave
		ev.Text = fmt.Sprintf("%d' %s shoots, saved by %s", minute, shooter.Name, keeper.Name)
	} else {
		ev.Kind = EventShot
		ev.Text = fmt.Sprintf("%d' %s fires wide", minute, shooter.Name)
	}
	return ev, true
}

func buildupEvent(m Match, minute int, rng Random, at time.Time) (Event, bool) {
	role := coinFlip(rng)
	mid, ok := pick(rng, eligible(m, role, func(p player.Player) bool {
		return p.Position.Bucket() == player.BucketMidfielder
	}))
	if !ok {
		mid, ok = pick(rng, eligible(m, role, outfield))
		if !ok {
			return Event{}, false
		}
	}
	return Event{
		Minute:   minute,
		Kind:     EventBuildup,
		Side:     role,
		PlayerID: mid.ID,
		Text:     fmt.Sprintf("%d' %s builds from midfield for %s", minute, mid.Name, m.Side(role).ManagerName),
		At:       at,
	}, true
}

// pickScorer weights forwards 70%, midfielders 25% and defenders 5%, falling
// back to any outfield player when the preferred bucket is empty.
func pickScorer(m Match, role Role, rng Random) (player.Player, bool) {
	candidates := eligible(m, role, outfield)
	if len(candidates) == 0 {
		return player.Player{}, false
	}

	bucket := player.BucketDefender
	switch b := rng.Float64(); {
	case b < forwardShare:
		bucket = player.BucketForward
	case b < midfielderShare:
		bucket = player.BucketMidfielder
	}

	preferred := make([]player.Player, 0, len(candidates))
	for _, p := range candidates {
		if p.Position.Bucket() == bucket {
			preferred = append(preferred, p)
		}
	}
	if len(preferred) == 0 {
		preferred = candidates
	}
	return pick(rng, preferred)
}

// eligible filters the live squad, always dropping substituted-off players.
func eligible(m Match, role Role, keep func(player.Player) bool) []player.Player {
	squad := m.Side(role).Squad
	out := make([]player.Player, 0, len(squad))
	for _, p := range squad {
		if m.IsSubstituted(p.ID) || !keep(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func goalkeeper(m Match, role Role) (player.Player, bool) {
	keepers := eligible(m, role, player.Player.IsGoalkeeper)
	if len(keepers) == 0 {
		return player.Player{}, false
	}
	return keepers[0], true
}

func outfield(p player.Player) bool {
	return !p.IsGoalkeeper()
}

func pick(rng Random, pool []player.Player) (player.Player, bool) {
	if len(pool) == 0 {
		return player.Player{}, false
	}
	return pool[rng.IntN(len(pool))], true
}

func coinFlip(rng Random) Role {
	if rng.Float64() < 0.5 {
		return RoleHome
	}
	return RoleAway
}

// RecordEvent prepends ev and, for goals, updates the score and goalscorers.
func (m *Match) RecordEvent(ev Event) {
	m.Events = append([]Event{ev}, m.Events...)
	if ev.Kind != EventGoal {
		return
	}

	side := m.Side(ev.Side)
	if ev.Side == RoleHome {
		m.HomeScore++
	} else {
		m.AwayScore++
	}
	if m.Goalscorers == nil {
		m.Goalscorers = map[string]Goalscorer{}
	}
	entry := m.Goalscorers[ev.PlayerID]
	entry.OwnerID = side.ManagerID
	entry.Goals++
	for _, p := range side.Squad {
		if p.ID == ev.PlayerID {
			entry.Name = p.Name
			break
		}
	}
	m.Goalscorers[ev.PlayerID] = entry
}
