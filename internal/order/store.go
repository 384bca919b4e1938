package order

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Store keeps orders in memory keyed by id, in creation order.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*Order
	order  []string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{orders: make(map[string]*Order)}
}

// Add registers a newly created order.
func (s *Store) Add(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	s.order = append(s.order, o.ID)
}

// Get returns the order for the id.
func (s *Store) Get(id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return o, nil
}

// List returns every order in creation order.
func (s *Store) List() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Order, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.orders[id])
	}
	return out
}
