package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeNotificationGateway struct {
	mu      sync.Mutex
	items   []*domain.Notification
	marked  []string
	swept   int
	listErr error
}

func (g *fakeNotificationGateway) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]*domain.Notification, 0, len(g.items))
	for _, n := range g.items {
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (g *fakeNotificationGateway) MarkNotificationRead(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marked = append(g.marked, id)
	return nil
}

func (g *fakeNotificationGateway) MarkAllNotificationsRead(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.swept++
	return nil
}

var _ domain.NotificationGateway = (*fakeNotificationGateway)(nil)

type fakeSession struct {
	mu     sync.Mutex
	marked []string
}

func (s *fakeSession) JoinConversation(string)        {}
func (s *fakeSession) LeaveConversation(string)       {}
func (s *fakeSession) JoinOrderRoom(string)           {}
func (s *fakeSession) LeaveOrderRoom(string)          {}
func (s *fakeSession) TypingStart(string, string)     {}
func (s *fakeSession) TypingStop(string, string)      {}
func (s *fakeSession) MarkNotificationRead(id string) {
	s.mu.Lock()
	s.marked = append(s.marked, id)
	s.mu.Unlock()
}

var _ domain.SessionPort = (*fakeSession)(nil)

func notification(id string, at time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		Recipient: "buyer-1",
		Type:      domain.NotifyOrderDelivered,
		Title:     "Order delivered",
		Message:   "Your order was delivered",
		CreatedAt: at,
	}
}

func TestHandleDedupe(t *testing.T) {
	d := NewDispatcher(&fakeNotificationGateway{}, nil, nil)

	var signalled []string
	d.OnSignal(func(n domain.Notification) { signalled = append(signalled, n.ID) })

	d.Handle(notification("n1", testStart))
	d.Handle(notification("n1", testStart)) // reconnect replay
	d.Handle(notification("n2", testStart.Add(time.Minute)))

	if got := len(d.List()); got != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", got)
	}
	if len(signalled) != 2 || signalled[0] != "n1" || signalled[1] != "n2" {
		t.Fatalf("expected one signal per unique id, got %v", signalled)
	}
	if d.List()[0].ID != "n2" {
		t.Errorf("expected newest first, got %s", d.List()[0].ID)
	}
}

func TestRefreshRebuildsSeenSet(t *testing.T) {
	gw := &fakeNotificationGateway{items: []*domain.Notification{
		{ID: "n1", Title: "old", CreatedAt: testStart},
	}}
	d := NewDispatcher(gw, nil, nil)

	if err := d.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(d.List()); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}

	// n1 rides the baseline, so the push replay is a duplicate.
	d.Handle(notification("n1", testStart))
	if got := len(d.List()); got != 1 {
		t.Fatalf("expected baseline id deduped, got %d items", got)
	}
}

func TestMarkReadOptimistic(t *testing.T) {
	session := &fakeSession{}
	d := NewDispatcher(&fakeNotificationGateway{}, session, nil)
	d.Handle(notification("n1", testStart))

	if err := d.MarkRead("n1"); err != nil {
		t.Fatal(err)
	}
	if !d.List()[0].IsRead {
		t.Error("expected local read flag flipped immediately")
	}
	session.mu.Lock()
	marked := append([]string(nil), session.marked...)
	session.mu.Unlock()
	if len(marked) != 1 || marked[0] != "n1" {
		t.Fatalf("expected one socket confirmation, got %v", marked)
	}

	// Marking an already-read notification does not emit again.
	if err := d.MarkRead("n1"); err != nil {
		t.Fatal(err)
	}
	session.mu.Lock()
	count := len(session.marked)
	session.mu.Unlock()
	if count != 1 {
		t.Errorf("expected no second emit, got %d", count)
	}

	if err := d.MarkRead("missing"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	gw := &fakeNotificationGateway{}
	d := NewDispatcher(gw, nil, nil)
	d.Handle(notification("n1", testStart))
	d.Handle(notification("n2", testStart.Add(time.Minute)))

	if got := d.Unread(); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}
	if err := d.MarkAllRead(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := d.Unread(); got != 0 {
		t.Fatalf("expected 0 unread, got %d", got)
	}
	gw.mu.Lock()
	swept := gw.swept
	gw.mu.Unlock()
	if swept != 1 {
		t.Errorf("expected one sweep call, got %d", swept)
	}
}

func TestOnSignalReplace(t *testing.T) {
	d := NewDispatcher(&fakeNotificationGateway{}, nil, nil)

	first, second := 0, 0
	d.OnSignal(func(domain.Notification) { first++ })
	d.OnSignal(func(domain.Notification) { second++ })

	d.Handle(notification("n1", testStart))
	if first != 0 || second != 1 {
		t.Fatalf("expected only the replacing listener to fire, got first=%d second=%d", first, second)
	}
}
