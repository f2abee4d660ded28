package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-manager/internal/domain/match"
)

// MatchStore keeps match records in process. It backs practice matches and
// single-node deployments, and serializes all writes behind one mutex.
type MatchStore struct {
	mu      sync.Mutex
	items   map[string]match.Match
	subs    map[string]map[uint64]*subscriber
	nextSub uint64
	now     func() time.Time
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		items: make(map[string]match.Match),
		subs:  make(map[string]map[uint64]*subscriber),
		now:   time.Now,
	}
}

func (s *MatchStore) Create(_ context.Context, m match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[m.ID]; exists {
		return errors.Wrapf(match.ErrMatchExists, "match %s", m.ID)
	}
	item := m.Clone()
	item.Revision = 1
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now().UTC()
	}
	item.UpdatedAt = item.CreatedAt
	s.items[m.ID] = item
	s.publishLocked(item)
	return nil
}

func (s *MatchStore) Get(_ context.Context, id string) (match.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return item.Clone(), true, nil
}

func (s *MatchStore) Update(_ context.Context, id string, patch match.Patch) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return match.Match{}, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
	}
	return s.applyLocked(item, patch), nil
}

func (s *MatchStore) Transition(_ context.Context, id string, fn match.TransitionFunc) (match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return match.Match{}, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
	}
	patch, err := fn(item.Clone())
	if err != nil {
		return match.Match{}, err
	}
	if patch.IsEmpty() {
		return item.Clone(), nil
	}
	return s.applyLocked(item, patch), nil
}

// Subscribe delivers the current record first, then every change. Delivery
// runs on a goroutine per subscriber so a slow consumer never blocks writers.
func (s *MatchStore) Subscribe(ctx context.Context, id string, fn func(match.Match)) (func(), error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, errors.Wrapf(match.ErrMatchNotFound, "match %s", id)
	}

	s.nextSub++
	key := s.nextSub
	sub := newSubscriber(fn)
	if s.subs[id] == nil {
		s.subs[id] = make(map[uint64]*subscriber)
	}
	s.subs[id][key] = sub
	sub.push(item.Clone())
	s.mu.Unlock()

	go sub.run()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[id], key)
			if len(s.subs[id]) == 0 {
				delete(s.subs, id)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				unsubscribe()
			case <-sub.done:
			}
		}()
	}
	return unsubscribe, nil
}

func (s *MatchStore) ListByStates(_ context.Context, states []match.State, createdBefore time.Time) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[match.State]struct{}, len(states))
	for _, state := range states {
		wanted[state] = struct{}{}
	}

	out := make([]match.Match, 0)
	for _, item := range s.items {
		if _, ok := wanted[item.State]; !ok {
			continue
		}
		if !createdBefore.IsZero() && !item.CreatedAt.Before(createdBefore) {
			continue
		}
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MatchStore) DeleteClosedBefore(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, item := range s.items {
		if !item.State.Terminal() || !item.UpdatedAt.Before(before) {
			continue
		}
		delete(s.items, id)
		deleted++
	}
	return deleted, nil
}

func (s *MatchStore) applyLocked(item match.Match, patch match.Patch) match.Match {
	patch.Apply(&item)
	item.Revision++
	item.UpdatedAt = s.now().UTC()
	s.items[item.ID] = item
	s.publishLocked(item)
	return item.Clone()
}

func (s *MatchStore) publishLocked(item match.Match) {
	for _, sub := range s.subs[item.ID] {
		sub.push(item.Clone())
	}
}

type subscriber struct {
	fn      func(match.Match)
	mu      sync.Mutex
	pending []match.Match
	wake    chan struct{}
	done    chan struct{}
	closed  sync.Once
}

func newSubscriber(fn func(match.Match)) *subscriber {
	return &subscriber{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (s *subscriber) push(m match.Match) {
	s.mu.Lock()
	s.pending = append(s.pending, m)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			batch := s.pending
			s.pending = nil
			s.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, m := range batch {
				select {
				case <-s.done:
					return
				default:
				}
				s.fn(m)
			}
		}
	}
}

func (s *subscriber) close() {
	s.closed.Do(func() { close(s.done) })
}
