package match

import "sort"

// Slot is one labelled position on the pitch, coordinates in [0,100].
type Slot struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type Formation struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

var formations = map[string]Formation{
	"4-3-3": {Name: "4-3-3", Slots: []Slot{
		{"GK", 50, 5},
		{"LB", 15, 25}, {"CB", 38, 22}, {"CB", 62, 22}, {"RB", 85, 25},
		{"CM", 30, 50}, {"CM", 50, 45}, {"CM", 70, 50},
		{"LW", 18, 78}, {"ST", 50, 85}, {"RW", 82, 78},
	}},
	"4-4-2": {Name: "4-4-2", Slots: []Slot{
		{"GK", 50, 5},
		{"LB", 15, 25}, {"CB", 38, 22}, {"CB", 62, 22}, {"RB", 85, 25},
		{"LM", 15, 52}, {"CM", 38, 48}, {"CM", 62, 48}, {"RM", 85, 52},
		{"ST", 38, 82}, {"ST", 62, 82},
	}},
	"3-5-2": {Name: "3-5-2", Slots: []Slot{
		{"GK", 50, 5},
		{"CB", 28, 22}, {"CB", 50, 20}, {"CB", 72, 22},
		{"LWB", 10, 50}, {"CM", 32, 48}, {"CDM", 50, 40}, {"CM", 68, 48}, {"RWB", 90, 50},
		{"ST", 38, 82}, {"ST", 62, 82},
	}},
	"4-2-3-1": {Name: "4-2-3-1", Slots: []Slot{
		{"GK", 50, 5},
		{"LB", 15, 25}, {"CB", 38, 22}, {"CB", 62, 22}, {"RB", 85, 25},
		{"CDM", 38, 42}, {"CDM", 62, 42},
		{"LW", 18, 65}, {"CAM", 50, 62}, {"RW", 82, 65},
		{"ST", 50, 85},
	}},
	"3-4-3": {Name: "3-4-3", Slots: []Slot{
		{"GK", 50, 5},
		{"CB", 28, 22}, {"CB", 50, 20}, {"CB", 72, 22},
		{"LM", 15, 50}, {"CM", 38, 46}, {"CM", 62, 46}, {"RM", 85, 50},
		{"LW", 20, 78}, {"ST", 50, 85}, {"RW", 80, 78},
	}},
}

func LookupFormation(name string) (Formation, bool) {
	f, ok := formations[name]
	return f, ok
}

// FormationNames lists the catalog in a stable order.
func FormationNames() []string {
	out := make([]string, 0, len(formations))
	for name := range formations {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
