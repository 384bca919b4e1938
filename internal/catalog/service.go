package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested sku is not in the catalog.
var ErrNotFound = errors.New("product not found")

// ErrDuplicateSKU indicates an attempt to register a sku twice.
var ErrDuplicateSKU = errors.New("sku already registered")

// Service stores products in memory keyed by sku. Listing preserves
// registration order. The lock only matters when the service is shared by
// the HTTP surface; the core flow is single-actor.
type Service struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
}

// NewService constructs an empty catalog.
func NewService() *Service {
	return &Service{products: make(map[string]Product)}
}

// Add registers a product. The sku must be unique.
func (s *Service) Add(p Product) error {
	if _, err := NewProduct(p.SKU, p.Name, p.UnitPrice, p.Manufacturer, p.Category, p.MaxInstallments); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.SKU]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
	}
	s.products[p.SKU] = p
	s.order = append(s.order, p.SKU)
	return nil
}

// Get returns the product for the sku.
func (s *Service) Get(sku string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[sku]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, sku)
	}
	return p, nil
}

// List returns every product in registration order.
func (s *Service) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.order))
	for _, sku := range s.order {
		out = append(out, s.products[sku])
	}
	return out
}

// ListByCategory returns the products of one category in registration order.
func (s *Service) ListByCategory(category Category) ([]Product, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, category)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, sku := range s.order {
		if p := s.products[sku]; p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdatePrice changes a product's unit price. Existing cart lines keep
// their snapshot, so historical totals are unaffected.
func (s *Service) UpdatePrice(sku string, newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return fmt.Errorf("%w: unit price must be positive, got %s", ErrInvalidProduct, newPrice)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[sku]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sku)
	}
	p.UnitPrice = newPrice
	s.products[sku] = p
	return nil
}
