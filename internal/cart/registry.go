package cart

import "sync"

// Registry hands out one cart per customer id, creating it on first use.
type Registry struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	catalog CatalogReader
	stock   StockChecker
}

// NewRegistry constructs a Registry bound to the shared catalog and stock.
func NewRegistry(catalog CatalogReader, stock StockChecker) *Registry {
	return &Registry{carts: make(map[string]*Cart), catalog: catalog, stock: stock}
}

// Ensure returns the cart for a customer, creating an empty one if needed.
func (r *Registry) Ensure(customerID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[customerID]; ok {
		return c
	}
	c := New(r.catalog, r.stock)
	r.carts[customerID] = c
	return c
}
