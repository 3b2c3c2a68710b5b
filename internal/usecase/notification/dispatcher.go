package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
)

// Dispatcher maintains the in-session notification feed. Realtime
// pushes and the API baseline both funnel through it; a seen-id set
// keeps reconnect replays and double deliveries from surfacing twice.
type Dispatcher struct {
	Gateway domain.NotificationGateway
	Session domain.SessionPort
	Metrics *metrics.CoreMetrics
	Logger  *slog.Logger

	mu       sync.Mutex
	items    []*domain.Notification
	seen     map[string]struct{}
	onSignal func(domain.Notification)
}

func NewDispatcher(gateway domain.NotificationGateway, session domain.SessionPort, coreMetrics *metrics.CoreMetrics) *Dispatcher {
	return &Dispatcher{
		Gateway: gateway,
		Session: session,
		Metrics: coreMetrics,
		Logger:  slog.Default(),
		seen:    make(map[string]struct{}),
	}
}

// OnSignal registers the callback invoked for each genuinely new
// notification (after dedup). Registering again replaces the previous
// one.
func (d *Dispatcher) OnSignal(fn func(domain.Notification)) {
	d.mu.Lock()
	d.onSignal = fn
	d.mu.Unlock()
}

// Refresh replaces the feed with the authoritative list. The seen set
// is rebuilt from it, so ids dropped server-side can reappear later
// as fresh pushes.
func (d *Dispatcher) Refresh(ctx context.Context) error {
	items, err := d.Gateway.ListNotifications(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	d.mu.Lock()
	d.items = items
	d.seen = make(map[string]struct{}, len(items))
	for _, n := range items {
		d.seen[n.ID] = struct{}{}
	}
	d.mu.Unlock()
	d.Metrics.Refetch("notifications")
	return nil
}

// Handle ingests a pushed notification. Duplicates by id are dropped
// silently.
func (d *Dispatcher) Handle(n domain.Notification) {
	d.mu.Lock()
	if _, dup := d.seen[n.ID]; dup {
		d.mu.Unlock()
		d.Metrics.NotificationDeduped()
		return
	}
	d.seen[n.ID] = struct{}{}
	d.items = append([]*domain.Notification{&n}, d.items...)
	fn := d.onSignal
	d.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// MarkRead flips a notification read optimistically: the local state
// changes immediately and the server is told over the socket. There is
// no rollback; a failed emit is reconciled by the next Refresh.
func (d *Dispatcher) MarkRead(id string) error {
	d.mu.Lock()
	var target *domain.Notification
	for _, n := range d.items {
		if n.ID == id {
			target = n
			break
		}
	}
	if target == nil {
		d.mu.Unlock()
		return domain.ErrNotificationNotFound
	}
	already := target.IsRead
	target.IsRead = true
	d.mu.Unlock()

	if !already && d.Session != nil {
		d.Session.MarkNotificationRead(id)
	}
	return nil
}

// MarkAllRead flips every unread notification locally and confirms the
// sweep over REST in one call.
func (d *Dispatcher) MarkAllRead(ctx context.Context) error {
	d.mu.Lock()
	for _, n := range d.items {
		n.IsRead = true
	}
	d.mu.Unlock()
	return d.Gateway.MarkAllNotificationsRead(ctx)
}

// Unread returns the number of unread notifications.
func (d *Dispatcher) Unread() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, n := range d.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// List returns the feed, newest first.
func (d *Dispatcher) List() []*domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.Notification, len(d.items))
	copy(out, d.items)
	return out
}
