package match

import "strings"

type Tactic string

const (
	TacticDefensive Tactic = "defensive"
	TacticBalanced  Tactic = "balanced"
	TacticAttacking Tactic = "attacking"
)

// ParseTactic accepts any casing and defaults an empty value to balanced.
func ParseTactic(raw string) (Tactic, error) {
	switch Tactic(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TacticBalanced:
		return TacticBalanced, nil
	case TacticDefensive:
		return TacticDefensive, nil
	case TacticAttacking:
		return TacticAttacking, nil
	default:
		return "", ErrUnknownTactic
	}
}

func (t Tactic) Valid() bool {
	return t == TacticDefensive || t == TacticBalanced || t == TacticAttacking
}

// Modifier scales a side's attacking weight only.
func (t Tactic) Modifier() float64 {
	switch t {
	case TacticAttacking:
		return 1.15
	case TacticDefensive:
		return 0.90
	default:
		return 1.00
	}
}
