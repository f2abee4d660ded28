package player

import (
	"github.com/cockroachdb/errors"
)

// Position is a pitch role from the fixed position vocabulary.
type Position string

const (
	PositionGK  Position = "GK"
	PositionCB  Position = "CB"
	PositionLB  Position = "LB"
	PositionRB  Position = "RB"
	PositionLWB Position = "LWB"
	PositionRWB Position = "RWB"
	PositionCDM Position = "CDM"
	PositionCM  Position = "CM"
	PositionCAM Position = "CAM"
	PositionLM  Position = "LM"
	PositionRM  Position = "RM"
	PositionLW  Position = "LW"
	PositionRW  Position = "RW"
	PositionCF  Position = "CF"
	PositionST  Position = "ST"
)

// Bucket groups positions for scorer weighting.
type Bucket string

const (
	BucketGoalkeeper Bucket = "GK"
	BucketDefender   Bucket = "DEF"
	BucketMidfielder Bucket = "MID"
	BucketForward    Bucket = "FWD"
)

var positionBuckets = map[Position]Bucket{
	PositionGK:  BucketGoalkeeper,
	PositionCB:  BucketDefender,
	PositionLB:  BucketDefender,
	PositionRB:  BucketDefender,
	PositionLWB: BucketDefender,
	PositionRWB: BucketDefender,
	PositionCDM: BucketMidfielder,
	PositionCM:  BucketMidfielder,
	PositionCAM: BucketMidfielder,
	PositionLM:  BucketMidfielder,
	PositionRM:  BucketMidfielder,
	PositionLW:  BucketForward,
	PositionRW:  BucketForward,
	PositionCF:  BucketForward,
	PositionST:  BucketForward,
}

var shooterPositions = map[Position]struct{}{
	PositionST:  {},
	PositionLW:  {},
	PositionRW:  {},
	PositionCAM: {},
	PositionCM:  {},
}

var ErrUnknownPosition = errors.New("unknown player position")

func (p Position) Valid() bool {
	_, ok := positionBuckets[p]
	return ok
}

func (p Position) Bucket() Bucket {
	return positionBuckets[p]
}

// CanShoot reports whether the position takes part in shot events.
func (p Position) CanShoot() bool {
	_, ok := shooterPositions[p]
	return ok
}

// Player is an immutable snapshot of a roster entry taken when a side confirms its lineup.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Overall  int      `json:"overall"`
	Age      int      `json:"age"`
}

func (p Player) IsGoalkeeper() bool {
	return p.Position.Bucket() == BucketGoalkeeper
}

func (p Player) Validate() error {
	if p.ID == "" {
		return errors.New("player id is required")
	}
	if p.Name == "" {
		return errors.New("player name is required")
	}
	if !p.Position.Valid() {
		return errors.Wrapf(ErrUnknownPosition, "player %s position %q", p.ID, p.Position)
	}
	if p.Overall < 1 || p.Overall > 99 {
		return errors.Newf("player %s overall must be within 1..99, got %d", p.ID, p.Overall)
	}

	return nil
}
