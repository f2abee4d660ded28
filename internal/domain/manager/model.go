package manager

import (
	"maps"
	"slices"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

// RosterPlayer is a persistent roster entry; match squads snapshot its Player part.
type RosterPlayer struct {
	player.Player
	Experience int `json:"experience"`
}

type Record struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}

type LeagueRecord struct {
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	Points       int `json:"points"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
}

func (l LeagueRecord) GoalDifference() int {
	return l.GoalsFor - l.GoalsAgainst
}

type Facilities struct {
	Stadium int `json:"stadium"`
}

// Profile is what the match core reads about a manager.
type Profile struct {
	ID         string
	Name       string
	Roster     []RosterPlayer
	Budget     int64
	Record     Record
	League     LeagueRecord
	Facilities Facilities
	// LeaguePlayedOn maps opponent id to the last league fixture day (YYYY-MM-DD).
	LeaguePlayedOn map[string]string
}

func (p Profile) FindPlayer(id string) (RosterPlayer, bool) {
	for _, rp := range p.Roster {
		if rp.ID == id {
			return rp, true
		}
	}
	return RosterPlayer{}, false
}

// Clone copies the roster and league map so callers can mutate freely.
func (p Profile) Clone() Profile {
	copied := p
	copied.Roster = slices.Clone(p.Roster)
	if p.LeaguePlayedOn != nil {
		copied.LeaguePlayedOn = maps.Clone(p.LeaguePlayedOn)
	}
	return copied
}

func (p Profile) PlayedLeagueOn(opponentID, day string) bool {
	return p.LeaguePlayedOn[opponentID] == day
}

func (p Profile) AverageOverall() float64 {
	if len(p.Roster) == 0 {
		return 0
	}
	total := 0
	for _, rp := range p.Roster {
		total += rp.Overall
	}
	return float64(total) / float64(len(p.Roster))
}

type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// ResultFor scores goalsFor against goalsAgainst.
func ResultFor(goalsFor, goalsAgainst int) Result {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}

func (r Result) LeaguePoints() int {
	switch r {
	case ResultWin:
		return 3
	case ResultDraw:
		return 1
	default:
		return 0
	}
}

// MatchHistory is one row of a manager's match log.
type MatchHistory struct {
	MatchID       string    `json:"matchId"`
	OpponentID    string    `json:"opponentId"`
	OpponentName  string    `json:"opponentName"`
	GoalsFor      int       `json:"goalsFor"`
	GoalsAgainst  int       `json:"goalsAgainst"`
	Result        Result    `json:"result"`
	LeagueFixture bool      `json:"leagueFixture"`
	Forfeit       bool      `json:"forfeit"`
	Summary       string    `json:"summary"`
	Scorers       []string  `json:"scorers"`
	PlayedAt      time.Time `json:"playedAt"`
}

// Outcome is the per-manager record update produced by settlement. Applying
// it twice for the same match id must not double count.
type Outcome struct {
	History  MatchHistory
	PlayedOn string
}

// ApplyOutcome folds a settled result into the profile's counters.
func (p *Profile) ApplyOutcome(outcome Outcome) {
	h := outcome.History
	switch h.Result {
	case ResultWin:
		p.Record.Wins++
	case ResultDraw:
		p.Record.Draws++
	case ResultLoss:
		p.Record.Losses++
	}
	if !h.LeagueFixture {
		return
	}

	switch h.Result {
	case ResultWin:
		p.League.Wins++
	case ResultDraw:
		p.League.Draws++
	case ResultLoss:
		p.League.Losses++
	}
	p.League.Points += h.Result.LeaguePoints()
	p.League.GoalsFor += h.GoalsFor
	p.League.GoalsAgainst += h.GoalsAgainst
	if p.LeaguePlayedOn == nil {
		p.LeaguePlayedOn = make(map[string]string)
	}
	p.LeaguePlayedOn[h.OpponentID] = outcome.PlayedOn
}
