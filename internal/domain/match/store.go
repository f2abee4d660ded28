package match

import (
	"context"
	"time"
)

// TransitionFunc inspects the freshly read record and returns the fields to
// write. Returning an empty Patch leaves the record untouched.
type TransitionFunc func(current Match) (Patch, error)

// Store is the shared, push-notifying record store both participants observe.
type Store interface {
	Create(ctx context.Context, m Match) error
	Get(ctx context.Context, id string) (Match, bool, error)
	// Update merges patch into the stored record without a precondition check.
	Update(ctx context.Context, id string, patch Patch) (Match, error)
	// Transition re-reads the record and applies fn's patch atomically with respect
	// to other writers of the same match.
	Transition(ctx context.Context, id string, fn TransitionFunc) (Match, error)
	// Subscribe delivers the full record after every change, in order, at least once.
	Subscribe(ctx context.Context, id string, fn func(Match)) (func(), error)
	// ListByStates returns matches in any of states. A zero createdBefore disables the age filter.
	ListByStates(ctx context.Context, states []State, createdBefore time.Time) ([]Match, error)
	// DeleteClosedBefore removes finished and cancelled records last updated before the cutoff.
	DeleteClosedBefore(ctx context.Context, before time.Time) (int, error)
}
