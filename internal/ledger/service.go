package ledger

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/order"
)

var (
	// ErrOrderNotPaid is returned when recording an order that is not PAID.
	ErrOrderNotPaid = errors.New("order not paid")
	// ErrAlreadyRecorded is returned when an order id is recorded twice.
	ErrAlreadyRecorded = errors.New("order already recorded")
)

// CatalogReader resolves product categories for revenue aggregation.
type CatalogReader interface {
	Get(sku string) (catalog.Product, error)
}

// ProductQty is one ranking row.
type ProductQty struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Service accumulates paid orders into aggregate report figures. Figures
// are maintained incrementally; reads are consistent with the recorded
// set at call time.
type Service struct {
	Catalog CatalogReader

	mu                sync.RWMutex
	recorded          map[string]struct{}
	qtyBySKU          map[string]int
	revenueByCategory map[catalog.Category]decimal.Decimal
	totalRevenue      decimal.Decimal
	totalTax          decimal.Decimal
	totalDiscount     decimal.Decimal
}

// NewService constructs an empty ledger.
func NewService(cat CatalogReader) *Service {
	return &Service{
		Catalog:           cat,
		recorded:          make(map[string]struct{}),
		qtyBySKU:          make(map[string]int),
		revenueByCategory: make(map[catalog.Category]decimal.Decimal),
	}
}

// Record accepts a PAID order and folds its breakdown into the running
// aggregates. Anything else is rejected and nothing is mutated.
func (s *Service) Record(o *order.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order is required", ErrOrderNotPaid)
	}
	if o.Status != order.StatusPaid {
		return fmt.Errorf("%w: order %s has status %s", ErrOrderNotPaid, o.ID, o.Status)
	}

	// resolve categories before touching state so a lookup failure leaves
	// the ledger unchanged
	categories := make(map[string]catalog.Category, len(o.Lines))
	for _, line := range o.Lines {
		p, err := s.Catalog.Get(line.SKU)
		if err != nil {
			return err
		}
		categories[line.SKU] = p.Category
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.recorded[o.ID]; dup {
		return fmt.Errorf("%w: %s", ErrAlreadyRecorded, o.ID)
	}
	s.recorded[o.ID] = struct{}{}
	s.totalRevenue = s.totalRevenue.Add(o.Breakdown.Total)
	s.totalTax = s.totalTax.Add(o.Breakdown.TotalTax)
	s.totalDiscount = s.totalDiscount.Add(o.Breakdown.TotalDiscount)
	for _, line := range o.Lines {
		s.qtyBySKU[line.SKU] += line.Qty
		c := categories[line.SKU]
		s.revenueByCategory[c] = s.revenueByCategory[c].Add(line.Total())
	}
	return nil
}

// TotalRevenue returns the sum of recorded order totals.
func (s *Service) TotalRevenue() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalRevenue
}

// TotalTax returns the sum of recorded order taxes.
func (s *Service) TotalTax() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalTax
}

// TotalDiscount returns the sum of recorded order discounts.
func (s *Service) TotalDiscount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalDiscount
}

// OrdersRecorded returns how many orders the ledger holds.
func (s *Service) OrdersRecorded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recorded)
}

// TopProducts ranks skus by cumulative purchased quantity, ties broken by
// sku ascending. n bounds the result; n <= 0 yields an empty slice.
func (s *Service) TopProducts(n int) []ProductQty {
	if n <= 0 {
		return nil
	}
	s.mu.RLock()
	rows := make([]ProductQty, 0, len(s.qtyBySKU))
	for sku, qty := range s.qtyBySKU {
		rows = append(rows, ProductQty{SKU: sku, Qty: qty})
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Qty != rows[j].Qty {
			return rows[i].Qty > rows[j].Qty
		}
		return rows[i].SKU < rows[j].SKU
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// RevenueByCategory returns a copy of the per-category revenue figures.
func (s *Service) RevenueByCategory() map[catalog.Category]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[catalog.Category]decimal.Decimal, len(s.revenueByCategory))
	for c, v := range s.revenueByCategory {
		out[c] = v
	}
	return out
}
