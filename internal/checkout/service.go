package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
)

// ErrInvalidInput is returned when the checkout arguments are malformed.
var ErrInvalidInput = errors.New("invalid checkout input")

// InstallmentLimitError reports a product whose installment limit is below
// the requested count.
type InstallmentLimitError struct {
	SKU       string
	Max       int
	Requested int
}

func (e *InstallmentLimitError) Error() string {
	return fmt.Sprintf("installment limit exceeded for %s: requested %d, max %d", e.SKU, e.Requested, e.Max)
}

// CatalogReader resolves products during validation.
type CatalogReader interface {
	Get(sku string) (catalog.Product, error)
}

// Inventory is the stock surface checkout depends on.
type Inventory interface {
	EnsureAvailable(sku string, qty int) error
	Remove(sku string, qty int) error
	Add(sku string, qty int) error
}

// Service orchestrates closing an order: availability check, installment
// validation, pricing, stock deduction, order creation. A failed checkout
// leaves cart and inventory completely unchanged.
type Service struct {
	Catalog   CatalogReader
	Inventory Inventory
	Engine    *pricing.Engine
	Orders    *order.Store
	Events    *events.Bus
	Now       func() time.Time

	// mu makes check-availability-plus-deduct one critical section when
	// the service is shared by concurrent HTTP handlers.
	mu sync.Mutex
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CloseOrder validates the cart against inventory and installment limits,
// prices it, deducts stock and creates an OPEN order. Paying or cancelling
// the order is a separate, later operation performed by the caller.
func (s *Service) CloseOrder(ctx context.Context, cust *customer.Customer, crt *cart.Cart, couponCode string, installments int) (*order.Order, error) {
	if s == nil || s.Catalog == nil || s.Inventory == nil || s.Engine == nil || s.Orders == nil {
		return nil, errors.New("checkout service not configured")
	}
	if cust == nil {
		return nil, fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}
	if crt == nil {
		return nil, fmt.Errorf("%w: cart is required", ErrInvalidInput)
	}
	if installments < catalog.MinInstallments || installments > catalog.MaxInstallments {
		return nil, fmt.Errorf("%w: installments must be within [%d,%d], got %d",
			ErrInvalidInput, catalog.MinInstallments, catalog.MaxInstallments, installments)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := crt.Lines()

	// all-or-nothing: every check runs before anything is mutated
	for _, line := range lines {
		if err := s.Inventory.EnsureAvailable(line.SKU, line.Qty); err != nil {
			return nil, err
		}
	}
	if installments > 1 {
		for _, line := range lines {
			product, err := s.Catalog.Get(line.SKU)
			if err != nil {
				return nil, err
			}
			if installments > product.MaxInstallments {
				return nil, &InstallmentLimitError{SKU: line.SKU, Max: product.MaxInstallments, Requested: installments}
			}
		}
	}

	pricingLines := make([]pricing.Line, 0, len(lines))
	orderLines := make([]order.Line, 0, len(lines))
	for _, line := range lines {
		pricingLines = append(pricingLines, pricing.Line{SKU: line.SKU, Qty: line.Qty, UnitPrice: line.UnitPrice})
		orderLines = append(orderLines, order.Line{SKU: line.SKU, Qty: line.Qty, UnitPrice: line.UnitPrice})
	}

	breakdown, err := s.Engine.Calculate(*cust, pricingLines, couponCode)
	if err != nil {
		return nil, err
	}

	if err := s.deduct(lines); err != nil {
		return nil, err
	}

	o := order.New(cust.ID, orderLines, breakdown, installments, s.now())
	s.Orders.Add(o)
	crt.Clear()

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderCreated, o.ID, map[string]any{
			"customerId": cust.ID,
			"total":      o.Breakdown.Total.StringFixed(2),
			"coupon":     couponCode,
		})
	}
	return o, nil
}

// deduct removes every line's quantity from stock. Availability was
// checked under the same lock, so failure here is unexpected; any partial
// deduction is rolled back before returning.
func (s *Service) deduct(lines []cart.Line) error {
	for i, line := range lines {
		if err := s.Inventory.Remove(line.SKU, line.Qty); err != nil {
			for _, done := range lines[:i] {
				_ = s.Inventory.Add(done.SKU, done.Qty)
			}
			return err
		}
	}
	return nil
}
