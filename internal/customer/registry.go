package customer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound indicates the requested customer is not registered.
var ErrNotFound = errors.New("customer not found")

// Registry keeps registered customers keyed by id.
type Registry struct {
	mu        sync.RWMutex
	customers map[string]*Customer
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{customers: make(map[string]*Customer)}
}

// Register adds a customer. The id must be unique.
func (r *Registry) Register(c *Customer) error {
	if c == nil {
		return fmt.Errorf("%w: customer is required", ErrInvalidCustomer)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidCustomer, c.ID)
	}
	r.customers[c.ID] = c
	return nil
}

// Get returns the customer for the id.
func (r *Registry) Get(id string) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, nil
}
