package match

import "github.com/cockroachdb/errors"

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchExists            = errors.New("match already exists")
	ErrInvalidTransition      = errors.New("invalid match state transition")
	ErrNotParticipant         = errors.New("caller is not a participant of this match")
	ErrNotAuthority           = errors.New("only the home side may drive the simulation")
	ErrInvalidLineup          = errors.New("invalid lineup")
	ErrUnknownFormation       = errors.New("unknown formation")
	ErrUnknownTactic          = errors.New("unknown tactic")
	ErrPauseQuotaExceeded     = errors.New("pause quota exceeded")
	ErrAlreadyPaused          = errors.New("match is already paused")
	ErrNotPaused              = errors.New("match is not paused")
	ErrSubstitutionNotAllowed = errors.New("substitution not allowed")
	ErrAlreadySettled         = errors.New("match already settled")
)
