package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/money"
)

// ErrInvalidInput is returned when the provided arguments are invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrLineNotFound indicates the sku has no line in the cart.
var ErrLineNotFound = errors.New("cart line not found")

// Line is one consolidated cart entry. The unit price is frozen at the
// moment the sku is first added, so later catalog price updates do not
// change this cart's totals.
type Line struct {
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
}

// Total returns the rounded line total.
func (l Line) Total() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
}

// CatalogReader is the catalog lookup the cart depends on. Satisfied by
// *catalog.Service.
type CatalogReader interface {
	Get(sku string) (catalog.Product, error)
}

// StockChecker verifies availability without mutating stock.
type StockChecker interface {
	EnsureAvailable(sku string, qty int) error
}

// Cart holds consolidated lines for one shopper. Lines keep insertion
// order; the bundle discount rule depends on it.
type Cart struct {
	mu      sync.Mutex
	catalog CatalogReader
	stock   StockChecker
	lines   []*Line
	index   map[string]*Line
}

// New constructs an empty cart bound to a catalog and a stock checker.
func New(catalog CatalogReader, stock StockChecker) *Cart {
	return &Cart{catalog: catalog, stock: stock, index: make(map[string]*Line)}
}

// AddItem adds qty units of a sku, consolidating with an existing line.
// The catalog price is snapshotted on the first add of each sku, and the
// requested cumulative quantity is validated against available stock.
func (c *Cart) AddItem(sku string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be >= 1, got %d", ErrInvalidInput, qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.index[sku]; ok {
		if err := c.stock.EnsureAvailable(sku, line.Qty+qty); err != nil {
			return err
		}
		line.Qty += qty
		return nil
	}
	product, err := c.catalog.Get(sku)
	if err != nil {
		return err
	}
	if err := c.stock.EnsureAvailable(sku, qty); err != nil {
		return err
	}
	line := &Line{SKU: sku, Qty: qty, UnitPrice: product.UnitPrice}
	c.lines = append(c.lines, line)
	c.index[sku] = line
	return nil
}

// RemoveItem drops the line for a sku.
func (c *Cart) RemoveItem(sku string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[sku]; !ok {
		return fmt.Errorf("%w: %s", ErrLineNotFound, sku)
	}
	delete(c.index, sku)
	for i, line := range c.lines {
		if line.SKU == sku {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateQty sets the quantity for an existing line, keeping its position
// and price snapshot.
func (c *Cart) UpdateQty(sku string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be >= 1, got %d", ErrInvalidInput, qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	line, ok := c.index[sku]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLineNotFound, sku)
	}
	if err := c.stock.EnsureAvailable(sku, qty); err != nil {
		return err
	}
	line.Qty = qty
	return nil
}

// Lines returns a read-only snapshot of the consolidated lines in
// insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	return out
}

// Subtotal sums the rounded line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines() {
		total = total.Add(line.Total())
	}
	return total
}

// Clear empties the cart. Checkout calls it after an order is created.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.index = make(map[string]*Line)
}
