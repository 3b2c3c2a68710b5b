package usecase

import (
	"sort"
	"sync"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
)

// Store is the in-memory order cache. Authoritative state lives behind
// the REST collaborator; this holds the last-known-good view plus
// localized optimistic writes, and is wholly replaced on resync.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewStore() *Store {
	return &Store{orders: make(map[string]*domain.Order)}
}

func (s *Store) Get(orderID string) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	return o, ok
}

func (s *Store) Put(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// ReplaceAll swaps the whole cache for a fresh authoritative baseline,
// discarding any optimistic local state.
func (s *Store) ReplaceAll(orders []*domain.Order) {
	next := make(map[string]*domain.Order, len(orders))
	for _, o := range orders {
		next[o.ID] = o
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = next
}

// Update mutates one order under the store lock. The callback must not
// call back into the store.
func (s *Store) Update(orderID string, fn func(*domain.Order) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	return fn(o)
}

// List returns the cached orders, newest first.
func (s *Store) List() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
