package match

import (
	"fmt"
	"math"
	"sort"
)

// DominanceGap is the strength difference above which a result is called
// dominant or an upset.
const DominanceGap = 10.0

// BuildReport derives the final report from a finished match's event log.
func BuildReport(m Match) Report {
	report := Report{
		Outcome: m.Outcome(),
		Forfeit: m.ForfeitedBy != "",
		Scorers: []ScorerLine{},
	}

	var homeAttacks, awayAttacks int
	for _, ev := range m.Events {
		switch ev.Kind {
		case EventGoal, EventShot, EventSave, EventBuildup:
		default:
			continue
		}
		attempt := ev.Kind != EventBuildup
		switch ev.Side {
		case RoleHome:
			homeAttacks++
			if attempt {
				report.HomeShots++
			}
		case RoleAway:
			awayAttacks++
			if attempt {
				report.AwayShots++
			}
		}
	}
	report.HomePossession, report.AwayPossession = possession(homeAttacks, awayAttacks)

	for playerID, scorer := range m.Goalscorers {
		side := RoleHome
		if scorer.OwnerID == m.Away.ManagerID {
			side = RoleAway
		}
		report.Scorers = append(report.Scorers, ScorerLine{
			PlayerID: playerID,
			Name:     scorer.Name,
			Side:     side,
			Goals:    scorer.Goals,
		})
	}
	sort.Slice(report.Scorers, func(i, j int) bool {
		if report.Scorers[i].Goals != report.Scorers[j].Goals {
			return report.Scorers[i].Goals > report.Scorers[j].Goals
		}
		return report.Scorers[i].Name < report.Scorers[j].Name
	})

	report.Summary = commentary(m, report.Outcome, report.Forfeit)
	return report
}

func possession(home, away int) (int, int) {
	if home+away == 0 {
		return 50, 50
	}
	h := int(math.Round(100 * float64(home) / float64(home+away)))
	return h, 100 - h
}

func commentary(m Match, outcome Outcome, forfeit bool) string {
	score := fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
	home, away := m.Home.ManagerName, m.Away.ManagerName

	if forfeit {
		quitter, awarded := home, away
		if m.ForfeitedBy == m.Away.ManagerID {
			quitter, awarded = away, home
		}
		return fmt.Sprintf("%s forfeited. %s are awarded the match %s.", quitter, awarded, score)
	}

	gap := TeamStrength(m.Home.Squad) - TeamStrength(m.Away.Squad)
	switch outcome {
	case OutcomeDraw:
		switch {
		case gap >= DominanceGap:
			return fmt.Sprintf("%s held the stronger %s to a %s draw.", away, home, score)
		case gap <= -DominanceGap:
			return fmt.Sprintf("%s held the stronger %s to a %s draw.", home, away, score)
		default:
			return fmt.Sprintf("An even contest between %s and %s ends %s.", home, away, score)
		}
	case OutcomeAwayWin:
		home, away = away, home
		gap = -gap
	}

	switch {
	case gap >= DominanceGap:
		return fmt.Sprintf("%s were dominant against %s, winning %s.", home, away, score)
	case gap <= -DominanceGap:
		return fmt.Sprintf("Upset! %s beat the favoured %s %s.", home, away, score)
	default:
		return fmt.Sprintf("%s edged an even contest against %s, %s.", home, away, score)
	}
}
