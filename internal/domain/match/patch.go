package match

import "time"

// Patch is a merge-update: only non-nil fields are written. Collections
// replace the stored value wholesale when set.
type Patch struct {
	State             *State `json:"state,omitempty"`
	Home              *Side  `json:"home,omitempty"`
	Away              *Side  `json:"away,omitempty"`
	HomeScore         *int   `json:"homeScore,omitempty"`
	AwayScore         *int   `json:"awayScore,omitempty"`
	SecondsElapsed    *int   `json:"secondsElapsed,omitempty"`
	MinuteElapsed     *int   `json:"minuteElapsed,omitempty"`
	SecondHalfStarted *bool  `json:"secondHalfStarted,omitempty"`

	Events               []Event               `json:"events,omitempty"`
	Goalscorers          map[string]Goalscorer `json:"goalscorers,omitempty"`
	SubstitutedPlayerIDs []string              `json:"substitutedPlayerIds,omitempty"`

	Paused                   *bool      `json:"paused,omitempty"`
	PausedBy                 *string    `json:"pausedBy,omitempty"`
	PauseReason              *string    `json:"pauseReason,omitempty"`
	PauseStartTime           *time.Time `json:"pauseStartTime,omitempty"`
	PauseEndTime             *time.Time `json:"pauseEndTime,omitempty"`
	HomePausesUsed           *int       `json:"homePausesUsed,omitempty"`
	AwayPausesUsed           *int       `json:"awayPausesUsed,omitempty"`
	HomeResumeReady          *bool      `json:"homeResumeReady,omitempty"`
	AwayResumeReady          *bool      `json:"awayResumeReady,omitempty"`
	HomeSubstitutedThisPause *bool      `json:"homeSubstitutedThisPause,omitempty"`
	AwaySubstitutedThisPause *bool      `json:"awaySubstitutedThisPause,omitempty"`

	MatchStartTime *time.Time        `json:"matchStartTime,omitempty"`
	StatsProcessed *bool             `json:"statsProcessed,omitempty"`
	Spectators     map[string]string `json:"spectators,omitempty"`
	ForfeitedBy    *string           `json:"forfeitedBy,omitempty"`
	Report         *Report           `json:"report,omitempty"`
	FinishedAt     *time.Time        `json:"finishedAt,omitempty"`
	CancelledAt    *time.Time        `json:"cancelledAt,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.State == nil && p.Home == nil && p.Away == nil &&
		p.HomeScore == nil && p.AwayScore == nil &&
		p.SecondsElapsed == nil && p.MinuteElapsed == nil && p.SecondHalfStarted == nil &&
		p.Events == nil && p.Goalscorers == nil && p.SubstitutedPlayerIDs == nil &&
		p.Paused == nil && p.PausedBy == nil && p.PauseReason == nil &&
		p.PauseStartTime == nil && p.PauseEndTime == nil &&
		p.HomePausesUsed == nil && p.AwayPausesUsed == nil &&
		p.HomeResumeReady == nil && p.AwayResumeReady == nil &&
		p.HomeSubstitutedThisPause == nil && p.AwaySubstitutedThisPause == nil &&
		p.MatchStartTime == nil && p.StatsProcessed == nil && p.Spectators == nil &&
		p.ForfeitedBy == nil && p.Report == nil && p.FinishedAt == nil && p.CancelledAt == nil
}

// Apply merges p into m. Stores call it under their own serialization.
func (p Patch) Apply(m *Match) {
	if p.State != nil {
		m.State = *p.State
	}
	if p.Home != nil {
		m.Home = p.Home.clone()
	}
	if p.Away != nil {
		m.Away = p.Away.clone()
	}
	setInt(&m.HomeScore, p.HomeScore)
	setInt(&m.AwayScore, p.AwayScore)
	setInt(&m.SecondsElapsed, p.SecondsElapsed)
	setInt(&m.MinuteElapsed, p.MinuteElapsed)
	setBool(&m.SecondHalfStarted, p.SecondHalfStarted)

	if p.Events != nil {
		m.Events = append([]Event(nil), p.Events...)
	}
	if p.Goalscorers != nil {
		m.Goalscorers = make(map[string]Goalscorer, len(p.Goalscorers))
		for k, v := range p.Goalscorers {
			m.Goalscorers[k] = v
		}
	}
	if p.SubstitutedPlayerIDs != nil {
		m.SubstitutedPlayerIDs = append([]string(nil), p.SubstitutedPlayerIDs...)
	}

	setBool(&m.Paused, p.Paused)
	setString(&m.PausedBy, p.PausedBy)
	setString(&m.PauseReason, p.PauseReason)
	setTime(&m.PauseStartTime, p.PauseStartTime)
	setTime(&m.PauseEndTime, p.PauseEndTime)
	setInt(&m.HomePausesUsed, p.HomePausesUsed)
	setInt(&m.AwayPausesUsed, p.AwayPausesUsed)
	setBool(&m.HomeResumeReady, p.HomeResumeReady)
	setBool(&m.AwayResumeReady, p.AwayResumeReady)
	setBool(&m.HomeSubstitutedThisPause, p.HomeSubstitutedThisPause)
	setBool(&m.AwaySubstitutedThisPause, p.AwaySubstitutedThisPause)

	setTime(&m.MatchStartTime, p.MatchStartTime)
	setBool(&m.StatsProcessed, p.StatsProcessed)
	if p.Spectators != nil {
		m.Spectators = make(map[string]string, len(p.Spectators))
		for k, v := range p.Spectators {
			m.Spectators[k] = v
		}
	}
	setString(&m.ForfeitedBy, p.ForfeitedBy)
	if p.Report != nil {
		report := *p.Report
		report.Scorers = append([]ScorerLine(nil), p.Report.Scorers...)
		m.Report = &report
	}
	if p.FinishedAt != nil {
		t := *p.FinishedAt
		m.FinishedAt = &t
	}
	if p.CancelledAt != nil {
		t := *p.CancelledAt
		m.CancelledAt = &t
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setTime(dst *time.Time, v *time.Time) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}
