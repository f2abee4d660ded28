package match

import (
	"fmt"
	"time"
)

// TickResult describes what a simulator step did.
type TickResult struct {
	// Stop is set when the authority loop must exit: half time, full time, or
	// a record that is no longer being played.
	Stop     bool
	Advanced bool
	Resumed  bool
	Halftime bool
	Fulltime bool
	Event    *Event
}

// SimulateTick advances m to the wall-clock anchored time at now. The counter
// jumps straight to the current second when the loop has fallen behind, and at
// most one generator draw happens per step.
func SimulateTick(m Match, rules Rules, rng Random, now time.Time) (Patch, TickResult) {
	if m.StatsProcessed || m.State != StatePlaying {
		return Patch{}, TickResult{Stop: true}
	}
	if m.Paused {
		if PauseExpired(m, now) {
			return Resume(m, now), TickResult{Resumed: true}
		}
		return Patch{}, TickResult{}
	}

	limit := rules.FullTimeSeconds
	if !m.SecondHalfStarted {
		limit = rules.HalfTimeSeconds
	}
	target := min(rules.ClockSeconds(m, now), limit)
	if target <= m.SecondsElapsed && m.SecondsElapsed < limit {
		return Patch{}, TickResult{}
	}

	work := m.Clone()
	result := TickResult{Advanced: target > m.SecondsElapsed}
	if result.Advanced {
		work.SecondsElapsed = target
		work.MinuteElapsed = MinuteFor(target)
		if ev, ok := GenerateEvent(work, work.MinuteElapsed, rng, now); ok {
			work.RecordEvent(ev)
			result.Event = &ev
		}
	}

	patch := Patch{
		SecondsElapsed: ptr(work.SecondsElapsed),
		MinuteElapsed:  ptr(work.MinuteElapsed),
	}

	switch {
	case work.SecondsElapsed >= rules.FullTimeSeconds:
		work.State = StateFinished
		work.RecordEvent(Event{
			Minute: work.MinuteElapsed,
			Kind:   EventFulltime,
			Text:   fmt.Sprintf("%d' Full time: %d-%d", work.MinuteElapsed, work.HomeScore, work.AwayScore),
			At:     now,
		})
		patch.State = ptr(StateFinished)
		patch.FinishedAt = ptr(now)
		result.Fulltime = true
		result.Stop = true
	case !m.SecondHalfStarted && work.SecondsElapsed >= rules.HalfTimeSeconds:
		work.State = StateHalftime
		work.Home.SecondHalfReady = false
		work.Away.SecondHalfReady = false
		work.RecordEvent(Event{
			Minute: work.MinuteElapsed,
			Kind:   EventHalftime,
			Text:   fmt.Sprintf("%d' Half time: %d-%d", work.MinuteElapsed, work.HomeScore, work.AwayScore),
			At:     now,
		})
		patch.State = ptr(StateHalftime)
		patch.Home = &work.Home
		patch.Away = &work.Away
		result.Halftime = true
		result.Stop = true
	}

	if len(work.Events) != len(m.Events) {
		patch.Events = work.Events
	}
	if work.HomeScore != m.HomeScore || work.AwayScore != m.AwayScore {
		patch.HomeScore = ptr(work.HomeScore)
		patch.AwayScore = ptr(work.AwayScore)
		patch.Goalscorers = work.Goalscorers
	}
	return patch, result
}
