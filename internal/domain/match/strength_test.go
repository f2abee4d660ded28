package match

import (
	"math"
	"testing"
)

func TestTeamStrength(t *testing.T) {
	t.Parallel()

	squad := squad433("h", 70)
	squad[0].Overall = 81
	want := (70.0*10 + 81) / 11
	if got := TeamStrength(squad); math.Abs(got-want) > 1e-9 {
		t.Fatalf("unexpected strength: got=%f want=%f", got, want)
	}
	if got := TeamStrength(nil); got != 0 {
		t.Fatalf("expected zero strength for empty squad, got %f", got)
	}
}

func TestHomeChance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		home     float64
		away     float64
		min, max float64
	}{
		{name: "equal squads give home edge", home: 75, away: 75, min: 0.5499, max: 0.5501},
		{name: "heavy home favourite", home: 85, away: 60, min: 0.65, max: 0.80},
		{name: "heavy away favourite", home: 60, away: 85, min: 0.15, max: 0.20},
		{name: "upper cap", home: 99, away: 20, min: 0.7999, max: 0.8001},
		{name: "lower cap", home: 20, away: 99, min: 0.1499, max: 0.1501},
		{name: "slight edge stays in middle band", home: 80, away: 75, min: 0.56, max: 0.57},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HomeChance(tc.home, tc.away)
			if got < tc.min || got > tc.max {
				t.Fatalf("home chance %f outside [%f, %f]", got, tc.min, tc.max)
			}
		})
	}
}

func TestHomeChance_FavouriteExactValue(t *testing.T) {
	t.Parallel()

	want := 0.65 + (85.0/60.0-1.2)*0.3
	if got := HomeChance(85, 60); math.Abs(got-want) > 1e-9 {
		t.Fatalf("unexpected home chance: got=%f want=%f", got, want)
	}
}

func TestAttackingWeight_TacticOnlyScalesOwnSide(t *testing.T) {
	t.Parallel()

	m := playingMatch(75, 75, 0)
	balanced := MatchHomeChance(m)

	m.Home.Tactic = TacticAttacking
	if got := AttackingWeight(m.Home); math.Abs(got-75*1.15) > 1e-9 {
		t.Fatalf("unexpected attacking weight: %f", got)
	}
	if got := AttackingWeight(m.Away); math.Abs(got-75) > 1e-9 {
		t.Fatalf("opponent weight must not change, got %f", got)
	}
	if MatchHomeChance(m) <= balanced {
		t.Fatalf("attacking tactic should raise home chance above %f", balanced)
	}

	m.Home.Tactic = TacticDefensive
	if MatchHomeChance(m) >= balanced {
		t.Fatalf("defensive tactic should lower home chance below %f", balanced)
	}
}

func TestParseTactic(t *testing.T) {
	t.Parallel()

	if got, err := ParseTactic(" Attacking "); err != nil || got != TacticAttacking {
		t.Fatalf("parse attacking: got=%s err=%v", got, err)
	}
	if got, err := ParseTactic(""); err != nil || got != TacticBalanced {
		t.Fatalf("empty tactic should default to balanced: got=%s err=%v", got, err)
	}
	if _, err := ParseTactic("park-the-bus"); err == nil {
		t.Fatalf("expected unknown tactic error")
	}
}

func TestMinuteFor(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, 1: 0, 2: 1, 4: 3, 60: 45, 61: 45, 119: 89, 120: 90}
	for seconds, want := range cases {
		if got := MinuteFor(seconds); got != want {
			t.Fatalf("MinuteFor(%d): got=%d want=%d", seconds, got, want)
		}
	}
}
