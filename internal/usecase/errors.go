package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-manager/internal/domain/match"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classifyMatchError tags a domain error with the usecase class the transport
// layer maps to a status. Unknown errors are treated as store failures.
func classifyMatchError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrConflict), errors.Is(err, ErrDependencyUnavailable):
		return err
	case errors.Is(err, match.ErrMatchNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, match.ErrNotParticipant), errors.Is(err, match.ErrNotAuthority):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case errors.Is(err, match.ErrInvalidLineup), errors.Is(err, match.ErrUnknownFormation),
		errors.Is(err, match.ErrUnknownTactic), errors.Is(err, match.ErrSubstitutionNotAllowed):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, match.ErrInvalidTransition), errors.Is(err, match.ErrPauseQuotaExceeded),
		errors.Is(err, match.ErrAlreadyPaused), errors.Is(err, match.ErrNotPaused),
		errors.Is(err, match.ErrAlreadySettled), errors.Is(err, match.ErrMatchExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
}
