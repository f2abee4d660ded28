package match

import (
	"fmt"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

var fixedNow = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

// squad433 builds starters in 4-3-3 slot order: GK, LB, CB, CB, RB, CM, CM, CM, LW, ST, RW.
func squad433(prefix string, overall int) []player.Player {
	positions := []player.Position{
		player.PositionGK,
		player.PositionLB, player.PositionCB, player.PositionCB, player.PositionRB,
		player.PositionCM, player.PositionCM, player.PositionCM,
		player.PositionLW, player.PositionST, player.PositionRW,
	}
	out := make([]player.Player, 0, len(positions))
	for i, pos := range positions {
		out = append(out, player.Player{
			ID:       fmt.Sprintf("%s-%d", prefix, i+1),
			Name:     fmt.Sprintf("%s %s %d", prefix, pos, i+1),
			Position: pos,
			Overall:  overall,
			Age:      24,
		})
	}
	return out
}

func bench(prefix string, overall int) []player.Player {
	positions := []player.Position{player.PositionGK, player.PositionCB, player.PositionCM, player.PositionST}
	out := make([]player.Player, 0, len(positions))
	for i, pos := range positions {
		out = append(out, player.Player{
			ID:       fmt.Sprintf("%s-b%d", prefix, i+1),
			Name:     fmt.Sprintf("%s bench %d", prefix, i+1),
			Position: pos,
			Overall:  overall,
			Age:      21,
		})
	}
	return out
}

func readySide(managerID string, overall int) Side {
	return Side{
		ManagerID:     managerID,
		ManagerName:   "FC " + managerID,
		Squad:         squad433(managerID, overall),
		Bench:         bench(managerID, overall-5),
		Formation:     "4-3-3",
		Tactic:        TacticBalanced,
		PrematchReady: true,
	}
}

func playingMatch(homeOverall, awayOverall int, startedAgo time.Duration) Match {
	m := New("m-1", readySide("home", homeOverall), readySide("away", awayOverall), false, fixedNow.Add(-time.Hour))
	m.State = StatePlaying
	m.MatchStartTime = fixedNow.Add(-startedAgo)
	return m
}

// scriptedRandom replays fixed draws and falls back to "no event" values.
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRandom) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}
