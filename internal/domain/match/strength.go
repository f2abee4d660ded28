package match

import (
	"math"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

// TeamStrength is the mean overall rating of the squad.
func TeamStrength(squad []player.Player) float64 {
	if len(squad) == 0 {
		return 0
	}
	total := 0
	for _, p := range squad {
		total += p.Overall
	}
	return float64(total) / float64(len(squad))
}

// AttackingWeight applies the tactic modifier to the side's strength.
func AttackingWeight(s Side) float64 {
	return TeamStrength(s.Squad) * s.Tactic.Modifier()
}

// HomeChance is the probability that a goal is attributed to the home side.
func HomeChance(home, away float64) float64 {
	switch {
	case home <= 0 && away <= 0:
		return 0.55
	case away <= 0:
		return 0.80
	case home <= 0:
		return 0.15
	}

	ratio := home / away
	switch {
	case ratio > 1.2:
		return 0.65 + math.Min(0.15, (ratio-1.2)*0.3)
	case ratio < 0.83:
		return 0.20 - math.Min(0.05, (0.83-ratio)*0.3)
	default:
		return home/(home+away) + 0.05
	}
}

// MatchHomeChance evaluates HomeChance on the live squads and tactics.
func MatchHomeChance(m Match) float64 {
	return HomeChance(AttackingWeight(m.Home), AttackingWeight(m.Away))
}
