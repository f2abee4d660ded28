package match

import "time"

// Rules holds the timing and quota parameters of a match.
type Rules struct {
	HalfTimeSeconds int
	FullTimeSeconds int
	PauseDuration   time.Duration
	PauseQuota      int
}

func DefaultRules() Rules {
	return Rules{
		HalfTimeSeconds: 60,
		FullTimeSeconds: 120,
		PauseDuration:   25 * time.Second,
		PauseQuota:      2,
	}
}

// MinuteFor maps real seconds to simulated minutes: 120s is 90 minutes.
func MinuteFor(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return seconds * 3 / 4
}

// ClockSeconds is the wall-clock anchored match time at now, clamped to full
// time. A paused match reads its clock at the pause start.
func (r Rules) ClockSeconds(m Match, now time.Time) int {
	if m.MatchStartTime.IsZero() {
		return 0
	}
	at := now
	if m.Paused && !m.PauseStartTime.IsZero() {
		at = m.PauseStartTime
	}
	elapsed := int(at.Sub(m.MatchStartTime) / time.Second)
	if elapsed < 0 {
		return 0
	}
	if elapsed > r.FullTimeSeconds {
		return r.FullTimeSeconds
	}
	return elapsed
}
