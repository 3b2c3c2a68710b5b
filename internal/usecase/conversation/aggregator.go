package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/clock"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
	"github.com/jaevor/go-nanoid"
	"golang.org/x/sync/singleflight"
)

// Aggregator keeps the per-user conversation list ordered by activity,
// merging the API baseline with incremental realtime events. It is a
// read-mostly cache: the server owns the records, local writes are
// optimistic and reconciled by the next fetch.
type Aggregator struct {
	Gateway domain.ConversationGateway
	Session domain.SessionPort
	Clock   clock.Clock
	Metrics *metrics.CoreMetrics
	Logger  *slog.Logger

	TypingTimeout time.Duration

	self  string
	newID func() string

	mu          sync.Mutex
	convs       []*domain.Conversation
	messages    map[string][]*domain.Message
	activeID    string
	typing      map[string]*typingState
	offerTimers map[string]clock.Timer
	onUpdate    func()

	refetch singleflight.Group
}

// requestTimeout bounds fire-and-forget calls made off the caller's
// context.
const requestTimeout = 10 * time.Second

type typingState struct {
	userID string
	timer  clock.Timer
}

func NewAggregator(
	selfID string,
	gateway domain.ConversationGateway,
	session domain.SessionPort,
	clk clock.Clock,
	coreMetrics *metrics.CoreMetrics,
	typingTimeout time.Duration) (*Aggregator, error) {

	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		Gateway:       gateway,
		Session:       session,
		Clock:         clk,
		Metrics:       coreMetrics,
		Logger:        slog.Default(),
		TypingTimeout: typingTimeout,
		self:          selfID,
		newID:         gen,
		messages:      make(map[string][]*domain.Message),
		typing:        make(map[string]*typingState),
		offerTimers:   make(map[string]clock.Timer),
	}, nil
}

// OnUpdate registers the view-invalidation callback. Registering again
// replaces the previous one.
func (a *Aggregator) OnUpdate(fn func()) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

func (a *Aggregator) notify() {
	a.mu.Lock()
	fn := a.onUpdate
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Refresh pulls the authoritative conversation list and replaces the
// cached one. Unread counts come recomputed from the server.
func (a *Aggregator) Refresh(ctx context.Context) error {
	convs, err := a.Gateway.ListConversations(ctx)
	if err != nil {
		return err
	}
	a.setBaseline(convs)
	a.Metrics.Refetch("conversations")
	a.notify()
	return nil
}

func (a *Aggregator) setBaseline(convs []*domain.Conversation) {
	sorted := make([]*domain.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastActivity.After(sorted[j].LastActivity)
	})
	a.mu.Lock()
	a.convs = sorted
	a.mu.Unlock()
}

// refetchAll is the unknown-conversation fallback: instead of
// fabricating a partial entry with incomplete participant or gig
// metadata, fetch the whole list again. Concurrent triggers collapse to
// one request.
func (a *Aggregator) refetchAll() {
	_, _, _ = a.refetch.Do("conversations", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := a.Refresh(ctx); err != nil {
			a.Logger.Warn("conversation refetch failed", "error", err.Error())
			return nil, err
		}
		return nil, nil
	})
}

// List returns the conversations, most recently active first.
func (a *Aggregator) List() []*domain.Conversation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*domain.Conversation, len(a.convs))
	copy(out, a.convs)
	return out
}

// Search filters the cached list case-insensitively against participant
// full names and usernames.
func (a *Aggregator) Search(query string) []*domain.Conversation {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*domain.Conversation
	for _, c := range a.convs {
		if c.MatchesQuery(query) {
			out = append(out, c)
		}
	}
	return out
}

func (a *Aggregator) UnreadTotal() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, c := range a.convs {
		total += c.UnreadCount
	}
	return total
}

func (a *Aggregator) ActiveID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID
}

// find returns the conversation and its index. Caller holds the lock.
func (a *Aggregator) find(conversationID string) (int, *domain.Conversation) {
	for i, c := range a.convs {
		if c.ID == conversationID {
			return i, c
		}
	}
	return -1, nil
}

// promote moves a conversation to position 0. Caller holds the lock.
func (a *Aggregator) promote(i int) {
	if i <= 0 {
		return
	}
	c := a.convs[i]
	copy(a.convs[1:i+1], a.convs[:i])
	a.convs[0] = c
}

// Dispose stops every pending typing and offer timer so nothing fires
// against obsolete state after teardown.
func (a *Aggregator) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, ts := range a.typing {
		if ts.timer != nil {
			ts.timer.Stop()
		}
		delete(a.typing, id)
	}
	for id, t := range a.offerTimers {
		t.Stop()
		delete(a.offerTimers, id)
	}
}
