package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

type fakeListener struct {
	notifications chan *pq.Notification
	mu            sync.Mutex
	channels      []string
	closed        bool
}

func newFakeListener() *fakeListener {
	return &fakeListener{notifications: make(chan *pq.Notification, 8)}
}

func (l *fakeListener) Listen(channel string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels = append(l.channels, channel)
	return nil
}

func (l *fakeListener) NotificationChannel() <-chan *pq.Notification {
	return l.notifications
}

func (l *fakeListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

type revisionSource struct {
	mu    sync.Mutex
	items map[string]match.Match
}

func (s *revisionSource) set(id string, revision int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = match.Match{ID: id, Revision: revision}
}

func (s *revisionSource) load(_ context.Context, id string) (match.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok, nil
}

func waitRevision(t *testing.T, got <-chan int64, want int64) {
	t.Helper()
	select {
	case rev := <-got:
		if rev != want {
			t.Fatalf("expected revision %d, got %d", want, rev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for revision %d", want)
	}
}

func TestChangeHubDeliversReloadedRecordsInOrder(t *testing.T) {
	t.Parallel()

	listener := newFakeListener()
	source := &revisionSource{items: map[string]match.Match{}}
	source.set("m-1", 1)
	hub := newChangeHub(listener, source.load, logging.NewNop())
	go hub.run()
	t.Cleanup(func() { _ = hub.close() })

	got := make(chan int64, 8)
	current, _, _ := source.load(context.Background(), "m-1")
	unsubscribe := hub.subscribe(context.Background(), current, func(m match.Match) {
		got <- m.Revision
	})
	waitRevision(t, got, 1)

	source.set("m-1", 2)
	listener.notifications <- &pq.Notification{Channel: matchChangesChannel, Extra: "m-1"}
	waitRevision(t, got, 2)

	// Reconnect triggers a reload; an unchanged revision is not redelivered.
	listener.notifications <- nil
	source.set("m-1", 3)
	listener.notifications <- &pq.Notification{Channel: matchChangesChannel, Extra: "m-1"}
	waitRevision(t, got, 3)

	listener.notifications <- &pq.Notification{Channel: matchChangesChannel, Extra: "other"}

	unsubscribe()
	if ids := hub.subscribedIDs(); len(ids) != 0 {
		t.Fatalf("expected no subscriptions after unsubscribe, got %v", ids)
	}
}

func TestChangeHubCloseStopsListener(t *testing.T) {
	t.Parallel()

	listener := newFakeListener()
	source := &revisionSource{items: map[string]match.Match{}}
	hub := newChangeHub(listener, source.load, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.subscribe(ctx, match.Match{ID: "m-2", Revision: 1}, func(match.Match) {})

	if err := hub.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := hub.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	listener.mu.Lock()
	defer listener.mu.Unlock()
	if !listener.closed {
		t.Fatalf("expected listener closed")
	}
	if ids := hub.subscribedIDs(); len(ids) != 0 {
		t.Fatalf("expected subscriptions dropped on close, got %v", ids)
	}
}

func TestEnableNotificationsListensOnChannel(t *testing.T) {
	t.Parallel()

	listener := newFakeListener()
	store := NewMatchStore(nil)
	if err := store.EnableNotifications(listener, logging.NewNop()); err != nil {
		t.Fatalf("enable notifications: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	listener.mu.Lock()
	defer listener.mu.Unlock()
	if len(listener.channels) != 1 || listener.channels[0] != matchChangesChannel {
		t.Fatalf("unexpected listen channels: %v", listener.channels)
	}
}
