package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const refreshTimeout = 5 * time.Second

// Listener is the subset of *pq.Listener the change hub relies on.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

// NewListener opens a reconnecting LISTEN connection on dsn.
func NewListener(dsn string, logger *logging.Logger) *pq.Listener {
	if logger == nil {
		logger = logging.Default()
	}
	return pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventDisconnected:
			logger.Warn("match change listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("match change listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("match change listener connect failed", "error", err)
		}
	})
}

// EnableNotifications subscribes to match_changes and starts feeding Subscribe.
func (s *MatchStore) EnableNotifications(listener Listener, logger *logging.Logger) error {
	if err := listener.Listen(matchChangesChannel); err != nil {
		return err
	}
	s.hub = newChangeHub(listener, s.Get, logger)
	go s.hub.run()
	return nil
}

type loadFunc func(ctx context.Context, id string) (match.Match, bool, error)

// changeHub turns notifications into full-record deliveries. A notification
// carries only the match id, so the hub reloads the row and hands the latest
// revision to every subscriber of that match.
type changeHub struct {
	listener Listener
	load     loadFunc
	logger   *logging.Logger

	mu      sync.Mutex
	subs    map[string]map[uint64]*hubSubscriber
	nextSub uint64

	done      chan struct{}
	closeOnce sync.Once
}

func newChangeHub(listener Listener, load loadFunc, logger *logging.Logger) *changeHub {
	if logger == nil {
		logger = logging.Default()
	}
	return &changeHub{
		listener: listener,
		load:     load,
		logger:   logger,
		subs:     make(map[string]map[uint64]*hubSubscriber),
		done:     make(chan struct{}),
	}
}

func (h *changeHub) run() {
	notifications := h.listener.NotificationChannel()
	for {
		select {
		case <-h.done:
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			// A nil notification follows a reconnect; anything may have changed.
			if n == nil {
				for _, id := range h.subscribedIDs() {
					h.refresh(id)
				}
				continue
			}
			h.refresh(n.Extra)
		}
	}
}

func (h *changeHub) refresh(id string) {
	h.mu.Lock()
	_, watched := h.subs[id]
	h.mu.Unlock()
	if !watched {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	item, ok, err := h.load(ctx, id)
	if err != nil {
		h.logger.Warn("reload changed match failed", "match_id", id, "error", err)
		return
	}
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[id] {
		sub.push(item)
	}
}

func (h *changeHub) subscribe(ctx context.Context, current match.Match, fn func(match.Match)) func() {
	sub := &hubSubscriber{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.nextSub++
	key := h.nextSub
	if h.subs[current.ID] == nil {
		h.subs[current.ID] = make(map[uint64]*hubSubscriber)
	}
	h.subs[current.ID][key] = sub
	h.mu.Unlock()

	sub.push(current)
	go sub.run()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[current.ID], key)
			if len(h.subs[current.ID]) == 0 {
				delete(h.subs, current.ID)
			}
			h.mu.Unlock()
			sub.stop()
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
	return unsubscribe
}

func (h *changeHub) subscribedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	return ids
}

func (h *changeHub) close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)
		err = h.listener.Close()

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, subs := range h.subs {
			for _, sub := range subs {
				sub.stop()
			}
			delete(h.subs, id)
		}
	})
	return err
}

// hubSubscriber keeps only the newest pending record and never delivers a
// revision older than one it already handed out.
type hubSubscriber struct {
	fn        func(match.Match)
	mu        sync.Mutex
	pending   *match.Match
	delivered int64
	wake      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

func (s *hubSubscriber) push(m match.Match) {
	s.mu.Lock()
	if s.pending == nil || m.Revision > s.pending.Revision {
		item := m.Clone()
		s.pending = &item
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *hubSubscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		item := s.pending
		s.pending = nil
		s.mu.Unlock()
		if item == nil || item.Revision <= s.delivered {
			continue
		}
		s.delivered = item.Revision
		s.fn(*item)
	}
}

func (s *hubSubscriber) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
