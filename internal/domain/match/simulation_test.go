package match

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestSimulateTick_CatchUpJumpsWithoutEventStorm(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	m := playingMatch(75, 75, 40*time.Second)
	m.SecondsElapsed = 3
	m.MinuteElapsed = MinuteFor(3)
	before := len(m.Events)

	rng := &scriptedRandom{floats: []float64{0.15, 0.2}}
	patch, result := SimulateTick(m, rules, rng, fixedNow)
	m = apply(m, patch)

	if !result.Advanced || result.Stop {
		t.Fatalf("unexpected result: %+v", result)
	}
	if m.SecondsElapsed != 40 || m.MinuteElapsed != 30 {
		t.Fatalf("expected jump to 40s/30', got %ds/%d'", m.SecondsElapsed, m.MinuteElapsed)
	}
	if added := len(m.Events) - before; added > 1 {
		t.Fatalf("catch-up must draw at most one event, added %d", added)
	}
}

func TestSimulateTick_SameSecondIsNoop(t *testing.T) {
	t.Parallel()

	m := playingMatch(75, 75, 10*time.Second+400*time.Millisecond)
	m.SecondsElapsed = 10

	patch, result := SimulateTick(m, DefaultRules(), &scriptedRandom{floats: []float64{0.01}}, fixedNow)
	if !patch.IsEmpty() || result.Advanced || result.Stop {
		t.Fatalf("expected no-op, got patch=%+v result=%+v", patch, result)
	}
}

func TestSimulateTick_HalftimeClampsFirstHalf(t *testing.T) {
	t.Parallel()

	m := playingMatch(75, 75, 75*time.Second)
	m.SecondsElapsed = 58
	m.Home.SecondHalfReady = true

	patch, result := SimulateTick(m, DefaultRules(), &scriptedRandom{}, fixedNow)
	m = apply(m, patch)

	if !result.Halftime || !result.Stop {
		t.Fatalf("expected halftime stop, got %+v", result)
	}
	if m.State != StateHalftime || m.SecondsElapsed != 60 || m.MinuteElapsed != 45 {
		t.Fatalf("unexpected halftime record: %s %ds %d'", m.State, m.SecondsElapsed, m.MinuteElapsed)
	}
	if m.Home.SecondHalfReady || m.Away.SecondHalfReady {
		t.Fatalf("second half ready flags must be cleared at half time")
	}
	if m.Events[0].Kind != EventHalftime {
		t.Fatalf("expected halftime event first, got %s", m.Events[0].Kind)
	}
}

func TestSimulateTick_FulltimeFinishes(t *testing.T) {
	t.Parallel()

	m := playingMatch(75, 75, 130*time.Second)
	m.SecondHalfStarted = true
	m.SecondsElapsed = 118

	patch, result := SimulateTick(m, DefaultRules(), &scriptedRandom{}, fixedNow)
	m = apply(m, patch)

	if !result.Fulltime || !result.Stop {
		t.Fatalf("expected fulltime stop, got %+v", result)
	}
	if m.State != StateFinished || m.MinuteElapsed != 90 || m.FinishedAt == nil {
		t.Fatalf("unexpected fulltime record: %s %d' finishedAt=%v", m.State, m.MinuteElapsed, m.FinishedAt)
	}
}

func TestSimulateTick_PausedFreezesClockUntilExpiry(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	m := playingMatch(75, 75, 20*time.Second)
	m.SecondsElapsed = 20
	m.MinuteElapsed = 15

	patch, err := RequestPause(m, RoleHome, "sub", rules, fixedNow)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	m = apply(m, patch)

	for offset := time.Second; offset < rules.PauseDuration; offset += time.Second {
		patch, result := SimulateTick(m, rules, &scriptedRandom{floats: []float64{0.01}}, fixedNow.Add(offset))
		if !patch.IsEmpty() || result.Stop {
			t.Fatalf("paused tick at +%s must not write, got %+v", offset, patch)
		}
	}

	expiry := fixedNow.Add(rules.PauseDuration)
	patch, result := SimulateTick(m, rules, &scriptedRandom{}, expiry)
	if !result.Resumed {
		t.Fatalf("expected auto resume at pause end")
	}
	m = apply(m, patch)
	if m.Paused {
		t.Fatalf("expected pause cleared")
	}
	if got := rules.ClockSeconds(m, expiry); got != 20 {
		t.Fatalf("clock must not race past the pause, got %ds", got)
	}
	if m.MinuteElapsed != 15 {
		t.Fatalf("minute must stay frozen through the pause, got %d", m.MinuteElapsed)
	}
}

func TestSimulateTick_StopsOnTerminalOrSettled(t *testing.T) {
	t.Parallel()

	m := playingMatch(75, 75, 10*time.Second)
	m.State = StateFinished
	if _, result := SimulateTick(m, DefaultRules(), &scriptedRandom{}, fixedNow); !result.Stop {
		t.Fatalf("finished match must stop the loop")
	}

	m = playingMatch(75, 75, 10*time.Second)
	m.StatsProcessed = true
	if _, result := SimulateTick(m, DefaultRules(), &scriptedRandom{}, fixedNow); !result.Stop {
		t.Fatalf("settled match must stop the loop")
	}
}

// TestSimulateTick_FullMatch drives a complete match one second at a time with
// a pause in each half and checks the record invariants along the way.
func TestSimulateTick_FullMatch(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rng := rand.New(rand.NewPCG(42, 1))
	now := fixedNow
	m := playingMatch(80, 70, 0)

	lastMinute := 0
	for step := 0; step < 400 && m.State != StateFinished; step++ {
		now = now.Add(time.Second)

		switch {
		case step == 20:
			patch, err := RequestPause(m, RoleHome, "sub", rules, now)
			if err != nil {
				t.Fatalf("pause: %v", err)
			}
			m = apply(m, patch)
		case m.State == StateHalftime:
			for _, role := range []Role{RoleHome, RoleAway} {
				patch, _, err := ReadyForSecondHalf(m, role, rules, now)
				if err != nil {
					t.Fatalf("ready for second half: %v", err)
				}
				m = apply(m, patch)
			}
			continue
		}

		frozen := m.MinuteElapsed
		wasPaused := m.Paused
		patch, _ := SimulateTick(m, rules, rng, now)
		m = apply(m, patch)

		if wasPaused && m.Paused && m.MinuteElapsed != frozen {
			t.Fatalf("minute moved while paused: %d -> %d", frozen, m.MinuteElapsed)
		}
		if m.MinuteElapsed < lastMinute {
			t.Fatalf("minute went backwards: %d -> %d", lastMinute, m.MinuteElapsed)
		}
		lastMinute = m.MinuteElapsed
		if !goalsAccounted(m) {
			t.Fatalf("score %d-%d does not match %d goal events", m.HomeScore, m.AwayScore, m.GoalEvents())
		}
	}

	if m.State != StateFinished || m.MinuteElapsed != 90 || m.SecondsElapsed != 120 {
		t.Fatalf("match did not finish: %s %ds %d'", m.State, m.SecondsElapsed, m.MinuteElapsed)
	}
	if !m.SecondHalfStarted {
		t.Fatalf("second half never started")
	}
}

// goalsAccounted checks score against goal events. A live forfeit writes a
// fixed 3-0 with no goal events, so forfeited records are exempt.
func goalsAccounted(m Match) bool {
	if m.ForfeitedBy != "" {
		return true
	}
	return m.HomeScore+m.AwayScore == m.GoalEvents()
}
