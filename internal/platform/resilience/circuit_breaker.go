package resilience

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc observes breaker transitions. It runs with the breaker lock
// released.
type StateChangeFunc func(from, to CircuitState)

// CircuitBreaker guards an outbound dependency. A disabled breaker admits
// every call and never changes state.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state     CircuitState
	failures  int
	openedAt  time.Time
	probing   int
	succeeded int

	onChange StateChangeFunc
	now      func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, onChange StateChangeFunc) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:      cfg.Normalize(),
		state:    CircuitStateClosed,
		onChange: onChange,
		now:      time.Now,
	}
}

// Execute runs fn when the breaker admits it. isFailure decides which errors
// count against the dependency; a nil isFailure counts every error.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}
	return err
}

func (b *CircuitBreaker) Allow() error {
	if !b.cfg.Enabled {
		return nil
	}

	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.setState(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen && b.probing >= b.cfg.HalfOpenMaxReq {
		b.mu.Unlock()
		b.notify(from, CircuitStateHalfOpen)
		return ErrCircuitOpen
	}
	if b.state == CircuitStateHalfOpen {
		b.probing++
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.probing = max(0, b.probing-1)
		b.succeeded++
		if b.succeeded >= b.cfg.HalfOpenMaxReq && b.probing == 0 {
			b.setState(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.setState(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.setState(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports the effective state: an open breaker past its timeout reads
// as half-open even before the next Allow.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) setState(to CircuitState) {
	b.state = to
	b.failures = 0
	b.probing = 0
	b.succeeded = 0
	if to == CircuitStateOpen {
		b.openedAt = b.now()
	} else {
		b.openedAt = time.Time{}
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
