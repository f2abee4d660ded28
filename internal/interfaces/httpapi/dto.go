package httpapi

import (
	"strconv"
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/usecase"
)

type challengeRequest struct {
	OpponentID    string `json:"opponentId" validate:"required,max=64"`
	LeagueFixture bool   `json:"leagueFixture"`
}

type lineupRequest struct {
	PlayerIDs []string `json:"playerIds" validate:"required,len=11,dive,required"`
	Formation string   `json:"formation" validate:"required"`
	Tactic    string   `json:"tactic" validate:"omitempty,max=32"`
}

type tacticRequest struct {
	Tactic string `json:"tactic" validate:"required,max=32"`
}

type pauseRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=64"`
}

type substitutionRequest struct {
	OutPlayerID string `json:"outPlayerId" validate:"required"`
	InPlayerID  string `json:"inPlayerId" validate:"required"`
}

type spectateRequest struct {
	Name string `json:"name" validate:"omitempty,max=64"`
}

// matchDTO is the full record plus the caller's role in it.
type matchDTO struct {
	match.Match
	ViewerRole match.Role `json:"viewerRole"`
}

func matchToDTO(m match.Match, managerID string) matchDTO {
	return matchDTO{Match: m, ViewerRole: match.RoleOf(m, managerID)}
}

type rosterPlayerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Overall    int    `json:"overall"`
	Age        int    `json:"age"`
	Experience int    `json:"experience"`
}

type managerDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Budget        int64             `json:"budget"`
	Stadium       int               `json:"stadiumLevel"`
	Record        manager.Record    `json:"record"`
	League        leagueRecordDTO   `json:"league"`
	Roster        []rosterPlayerDTO `json:"roster"`
	RecentMatches []matchHistoryDTO `json:"recentMatches"`
}

type leagueRecordDTO struct {
	manager.LeagueRecord
	GoalDifference int `json:"goalDifference"`
}

type matchHistoryDTO struct {
	MatchID       string   `json:"matchId"`
	OpponentID    string   `json:"opponentId"`
	OpponentName  string   `json:"opponentName"`
	Score         string   `json:"score"`
	Result        string   `json:"result"`
	LeagueFixture bool     `json:"leagueFixture"`
	Forfeit       bool     `json:"forfeit"`
	Summary       string   `json:"summary"`
	Scorers       []string `json:"scorers"`
	PlayedAt      string   `json:"playedAt"`
}

func managerToDTO(v usecase.ManagerDashboard) managerDTO {
	roster := make([]rosterPlayerDTO, 0, len(v.Profile.Roster))
	for _, p := range v.Profile.Roster {
		roster = append(roster, rosterPlayerDTO{
			ID:         p.ID,
			Name:       p.Name,
			Position:   string(p.Position),
			Overall:    p.Overall,
			Age:        p.Age,
			Experience: p.Experience,
		})
	}
	return managerDTO{
		ID:            v.Profile.ID,
		Name:          v.Profile.Name,
		Budget:        v.Profile.Budget,
		Stadium:       v.Profile.Facilities.Stadium,
		Record:        v.Profile.Record,
		League:        leagueRecordDTO{LeagueRecord: v.Profile.League, GoalDifference: v.Profile.League.GoalDifference()},
		Roster:        roster,
		RecentMatches: historyToDTO(v.Recent),
	}
}

func historyToDTO(items []manager.MatchHistory) []matchHistoryDTO {
	out := make([]matchHistoryDTO, 0, len(items))
	for _, h := range items {
		scorers := h.Scorers
		if scorers == nil {
			scorers = []string{}
		}
		out = append(out, matchHistoryDTO{
			MatchID:       h.MatchID,
			OpponentID:    h.OpponentID,
			OpponentName:  h.OpponentName,
			Score:         scoreLine(h.GoalsFor, h.GoalsAgainst),
			Result:        string(h.Result),
			LeagueFixture: h.LeagueFixture,
			Forfeit:       h.Forfeit,
			Summary:       h.Summary,
			Scorers:       scorers,
			PlayedAt:      h.PlayedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func scoreLine(goalsFor, goalsAgainst int) string {
	return strconv.Itoa(goalsFor) + "-" + strconv.Itoa(goalsAgainst)
}
