package match

import (
	"time"

	"github.com/riskibarqy/football-manager/internal/domain/player"
)

// State is the authoritative lifecycle value of a match.
type State string

const (
	StateWaiting   State = "waiting"
	StatePrematch  State = "prematch"
	StateReady     State = "ready"
	StatePlaying   State = "playing"
	StateHalftime  State = "halftime"
	StateFinished  State = "finished"
	StateCancelled State = "cancelled"
)

func (s State) Terminal() bool {
	return s == StateFinished || s == StateCancelled
}

// PreKickoff covers every state before the first whistle.
func (s State) PreKickoff() bool {
	return s == StateWaiting || s == StatePrematch || s == StateReady
}

func (s State) Live() bool {
	return s == StatePlaying || s == StateHalftime
}

// Role is the caller's identity relative to a match. It is derived once per
// request from the authenticated manager id and never recomputed.
type Role string

const (
	RoleHome      Role = "home"
	RoleAway      Role = "away"
	RoleSpectator Role = "spectator"
)

func (r Role) Participant() bool {
	return r == RoleHome || r == RoleAway
}

func (r Role) Opponent() Role {
	switch r {
	case RoleHome:
		return RoleAway
	case RoleAway:
		return RoleHome
	default:
		return RoleSpectator
	}
}

// RoleOf compares managerID against both sides of m.
func RoleOf(m Match, managerID string) Role {
	switch {
	case managerID == "":
		return RoleSpectator
	case m.Home.ManagerID == managerID:
		return RoleHome
	case m.Away.ManagerID == managerID:
		return RoleAway
	default:
		return RoleSpectator
	}
}

// Side is one participant's in-match team.
type Side struct {
	ManagerID       string          `json:"managerId"`
	ManagerName     string          `json:"managerName"`
	Squad           []player.Player `json:"squad"`
	Bench           []player.Player `json:"bench"`
	Formation       string          `json:"formation"`
	Tactic          Tactic          `json:"tactic"`
	PrematchReady   bool            `json:"prematchReady"`
	SecondHalfReady bool            `json:"secondHalfReady"`
	AI              bool            `json:"ai,omitempty"`
}

func (s Side) clone() Side {
	out := s
	out.Squad = append([]player.Player(nil), s.Squad...)
	out.Bench = append([]player.Player(nil), s.Bench...)
	return out
}

type EventKind string

const (
	EventKickoff      EventKind = "kickoff"
	EventGoal         EventKind = "goal"
	EventShot         EventKind = "shot"
	EventSave         EventKind = "save"
	EventBuildup      EventKind = "buildup"
	EventSubstitution EventKind = "substitution"
	EventPause        EventKind = "pause"
	EventResume       EventKind = "resume"
	EventHalftime     EventKind = "halftime"
	EventSecondHalf   EventKind = "second_half"
	EventFulltime     EventKind = "fulltime"
	EventForfeit      EventKind = "forfeit"
)

// Event is a minute-prefixed commentary line. Side is empty for neutral events.
type Event struct {
	Minute   int       `json:"minute"`
	Kind     EventKind `json:"kind"`
	Side     Role      `json:"side,omitempty"`
	PlayerID string    `json:"playerId,omitempty"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

type Goalscorer struct {
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Goals   int    `json:"goalCount"`
}

type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeAwayWin Outcome = "away_win"
	OutcomeDraw    Outcome = "draw"
)

type ScorerLine struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Side     Role   `json:"side"`
	Goals    int    `json:"goals"`
}

// Report is the final summary written once by settlement.
type Report struct {
	Outcome        Outcome      `json:"outcome"`
	Summary        string       `json:"summary"`
	HomePossession int          `json:"homePossession"`
	AwayPossession int          `json:"awayPossession"`
	HomeShots      int          `json:"homeShots"`
	AwayShots      int          `json:"awayShots"`
	Scorers        []ScorerLine `json:"scorers"`
	Forfeit        bool         `json:"forfeit,omitempty"`
}

// Match is the root aggregate shared by both participants through the Store.
type Match struct {
	ID            string `json:"id"`
	State         State  `json:"state"`
	Practice      bool   `json:"practice"`
	LeagueFixture bool   `json:"leagueFixture"`

	Home Side `json:"home"`
	Away Side `json:"away"`

	HomeScore         int  `json:"homeScore"`
	AwayScore         int  `json:"awayScore"`
	SecondsElapsed    int  `json:"secondsElapsed"`
	MinuteElapsed     int  `json:"minuteElapsed"`
	SecondHalfStarted bool `json:"secondHalfStarted"`

	Events               []Event               `json:"events"`
	Goalscorers          map[string]Goalscorer `json:"goalscorers"`
	SubstitutedPlayerIDs []string              `json:"substitutedPlayerIds"`

	Paused                   bool      `json:"paused"`
	PausedBy                 string    `json:"pausedBy"`
	PauseReason              string    `json:"pauseReason"`
	PauseStartTime           time.Time `json:"pauseStartTime"`
	PauseEndTime             time.Time `json:"pauseEndTime"`
	HomePausesUsed           int       `json:"homePausesUsed"`
	AwayPausesUsed           int       `json:"awayPausesUsed"`
	HomeResumeReady          bool      `json:"homeResumeReady"`
	AwayResumeReady          bool      `json:"awayResumeReady"`
	HomeSubstitutedThisPause bool      `json:"homeSubstitutedThisPause"`
	AwaySubstitutedThisPause bool      `json:"awaySubstitutedThisPause"`

	MatchStartTime time.Time         `json:"matchStartTime"`
	StatsProcessed bool              `json:"statsProcessed"`
	Spectators     map[string]string `json:"spectators"`
	ForfeitedBy    string            `json:"forfeitedBy,omitempty"`
	Report         *Report           `json:"report,omitempty"`

	Revision    int64      `json:"revision"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// Side returns the side owned by role. Spectators get a zero Side.
func (m Match) Side(role Role) Side {
	switch role {
	case RoleHome:
		return m.Home
	case RoleAway:
		return m.Away
	default:
		return Side{}
	}
}

func (m Match) IsSubstituted(playerID string) bool {
	for _, id := range m.SubstitutedPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (m Match) PausesUsed(role Role) int {
	if role == RoleAway {
		return m.AwayPausesUsed
	}
	return m.HomePausesUsed
}

// GoalEvents counts goal events in the log.
func (m Match) GoalEvents() int {
	total := 0
	for _, ev := range m.Events {
		if ev.Kind == EventGoal {
			total++
		}
	}
	return total
}

func (m Match) Outcome() Outcome {
	switch {
	case m.HomeScore > m.AwayScore:
		return OutcomeHomeWin
	case m.AwayScore > m.HomeScore:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Clone returns a deep copy safe to mutate.
func (m Match) Clone() Match {
	out := m
	out.Home = m.Home.clone()
	out.Away = m.Away.clone()
	out.Events = append([]Event(nil), m.Events...)
	out.SubstitutedPlayerIDs = append([]string(nil), m.SubstitutedPlayerIDs...)
	if m.Goalscorers != nil {
		out.Goalscorers = make(map[string]Goalscorer, len(m.Goalscorers))
		for k, v := range m.Goalscorers {
			out.Goalscorers[k] = v
		}
	}
	if m.Spectators != nil {
		out.Spectators = make(map[string]string, len(m.Spectators))
		for k, v := range m.Spectators {
			out.Spectators[k] = v
		}
	}
	if m.Report != nil {
		report := *m.Report
		report.Scorers = append([]ScorerLine(nil), m.Report.Scorers...)
		out.Report = &report
	}
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		out.FinishedAt = &t
	}
	if m.CancelledAt != nil {
		t := *m.CancelledAt
		out.CancelledAt = &t
	}
	return out
}

// New builds a fresh challenge record in the waiting state.
func New(id string, home, away Side, leagueFixture bool, now time.Time) Match {
	return Match{
		ID:            id,
		State:         StateWaiting,
		LeagueFixture: leagueFixture,
		Home:          home,
		Away:          away,
		Events:        []Event{},
		Goalscorers:   map[string]Goalscorer{},
		Spectators:    map[string]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
