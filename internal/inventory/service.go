package inventory

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidQuantity is returned when a quantity argument is out of range.
var ErrInvalidQuantity = errors.New("invalid quantity")

// InsufficientStockError reports a stock shortfall for one sku.
type InsufficientStockError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is a stock shortfall.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// Service tracks available quantity per sku. Unknown skus read as zero
// stock; checkout treats that the same as any other shortfall.
type Service struct {
	mu    sync.RWMutex
	stock map[string]int
}

// NewService constructs an empty inventory.
func NewService() *Service {
	return &Service{stock: make(map[string]int)}
}

// SetQuantity overwrites the available quantity for a sku.
func (s *Service) SetQuantity(sku string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: quantity must be >= 0, got %d", ErrInvalidQuantity, qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[sku] = qty
	return nil
}

// Add increases the available quantity for a sku.
func (s *Service) Add(sku string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[sku] += qty
	return nil
}

// Remove decreases the available quantity for a sku, failing on shortfall.
func (s *Service) Remove(sku string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	available := s.stock[sku]
	if available < qty {
		return &InsufficientStockError{SKU: sku, Requested: qty, Available: available}
	}
	s.stock[sku] = available - qty
	return nil
}

// Quantity returns the available quantity for a sku.
func (s *Service) Quantity(sku string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[sku]
}

// EnsureAvailable fails with an InsufficientStockError when fewer than qty
// units are available. It never mutates stock.
func (s *Service) EnsureAvailable(sku string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if available := s.stock[sku]; available < qty {
		return &InsufficientStockError{SKU: sku, Requested: qty, Available: available}
	}
	return nil
}
