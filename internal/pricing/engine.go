package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/money"
)

var (
	// ErrEmptyCart is returned when there are no lines to price.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidLine is returned for malformed line items.
	ErrInvalidLine = errors.New("invalid line item")
	// ErrInvalidCategory signals a line whose product category falls
	// outside the fixed enumeration. It indicates a catalog or cart
	// contract violation upstream.
	ErrInvalidCategory = errors.New("invalid category")
)

// Line is one consolidated cart line presented for pricing.
type Line struct {
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
}

// Total returns the rounded line total. Rounding here matches the cart
// and order line totals so subtotal, clamp headroom and tax allocation
// all work from the same finalized amounts.
func (l Line) Total() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
}

// DiscountLine is one applied discount, always a non-negative currency
// amount (never a percentage).
type DiscountLine struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Breakdown is the itemized result of pricing a cart. Immutable once
// produced; recalculating with identical inputs yields an identical value.
type Breakdown struct {
	Subtotal      decimal.Decimal                      `json:"subtotal"`
	Discounts     []DiscountLine                       `json:"discounts"`
	TotalDiscount decimal.Decimal                      `json:"totalDiscount"`
	TaxableBase   decimal.Decimal                      `json:"taxableBase"`
	TaxByCategory map[catalog.Category]decimal.Decimal `json:"taxByCategory"`
	TotalTax      decimal.Decimal                      `json:"totalTax"`
	Shipping      decimal.Decimal                      `json:"shipping"`
	Total         decimal.Decimal                      `json:"total"`
}

// CatalogReader resolves product attributes for pricing. Satisfied by
// *catalog.Service.
type CatalogReader interface {
	Get(sku string) (catalog.Product, error)
}

// Engine computes price breakdowns. Calculate is a pure function of its
// inputs: it never mutates catalog, inventory or customer state, so calls
// are reentrant.
type Engine struct {
	catalog  CatalogReader
	shipping decimal.Decimal
}

// NewEngine constructs an Engine with the given flat shipping fee.
func NewEngine(cat CatalogReader, shippingFee decimal.Decimal) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("pricing: catalog is required")
	}
	if shippingFee.IsNegative() {
		return nil, fmt.Errorf("pricing: shipping fee must be non-negative, got %s", shippingFee)
	}
	return &Engine{catalog: cat, shipping: shippingFee}, nil
}

// pricedLine pairs a cart line with its resolved category.
type pricedLine struct {
	Line
	category catalog.Category
}

// calc is the in-progress breakdown threaded through the rule pipeline.
type calc struct {
	tier         customer.Tier
	coupon       Coupon
	lines        []pricedLine
	subtotal     decimal.Decimal
	headroom     decimal.Decimal
	discounts    []DiscountLine
	freeShipping bool
}

// appendDiscount finalizes one discount line. The combined rules are not
// inherently bounded, so the line being appended is clamped to the
// remaining headroom (subtotal minus discounts so far); a line clamped to
// zero is dropped. Because rules run in their documented order, this
// realizes the reduce-the-last-applied clamp policy.
func (c *calc) appendDiscount(code, description string, amount decimal.Decimal) {
	amount = money.Round2(amount)
	if amount.GreaterThan(c.headroom) {
		amount = c.headroom
	}
	if !amount.IsPositive() {
		return
	}
	c.discounts = append(c.discounts, DiscountLine{Code: code, Description: description, Amount: amount})
	c.headroom = c.headroom.Sub(amount)
}

// rule mutates the in-progress calculation. Rules run in a fixed order:
// VIP, coupon, apparel bundle, threshold.
type rule func(*calc)

var rules = []rule{ruleVIP, ruleCoupon, ruleBundle, ruleThreshold}

// Calculate prices the consolidated lines for a customer with an optional
// coupon code and returns the itemized breakdown. An unrecognized coupon
// fails before any discount is computed; no partial output is produced on
// any failure path.
func (e *Engine) Calculate(cust customer.Customer, lines []Line, couponCode string) (Breakdown, error) {
	coupon, err := ParseCoupon(couponCode)
	if err != nil {
		return Breakdown{}, err
	}
	if len(lines) == 0 {
		return Breakdown{}, ErrEmptyCart
	}
	if !customer.ValidTier(cust.Tier) {
		return Breakdown{}, fmt.Errorf("%w: unknown tier %q", customer.ErrInvalidCustomer, cust.Tier)
	}

	priced, err := e.resolveLines(lines)
	if err != nil {
		return Breakdown{}, err
	}

	subtotal := decimal.Zero
	for _, line := range priced {
		subtotal = subtotal.Add(line.Total())
	}

	c := &calc{
		tier:     cust.Tier,
		coupon:   coupon,
		lines:    priced,
		subtotal: subtotal,
		headroom: subtotal,
	}
	for _, apply := range rules {
		apply(c)
	}

	totalDiscount := decimal.Zero
	for _, d := range c.discounts {
		totalDiscount = totalDiscount.Add(d.Amount)
	}
	taxableBase := subtotal.Sub(totalDiscount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	taxByCategory, totalTax := allocateTax(priced, subtotal, taxableBase)

	shipping := e.shipping
	if c.freeShipping {
		shipping = decimal.Zero
	}

	return Breakdown{
		Subtotal:      subtotal,
		Discounts:     c.discounts,
		TotalDiscount: totalDiscount,
		TaxableBase:   taxableBase,
		TaxByCategory: taxByCategory,
		TotalTax:      totalTax,
		Shipping:      shipping,
		Total:         money.Round2(taxableBase.Add(totalTax).Add(shipping)),
	}, nil
}

// resolveLines validates the lines and resolves each sku's category.
func (e *Engine) resolveLines(lines []Line) ([]pricedLine, error) {
	seen := make(map[string]struct{}, len(lines))
	priced := make([]pricedLine, 0, len(lines))
	for _, line := range lines {
		if line.SKU == "" {
			return nil, fmt.Errorf("%w: sku is required", ErrInvalidLine)
		}
		if _, dup := seen[line.SKU]; dup {
			return nil, fmt.Errorf("%w: duplicate sku %s", ErrInvalidLine, line.SKU)
		}
		seen[line.SKU] = struct{}{}
		if line.Qty < 1 {
			return nil, fmt.Errorf("%w: quantity for %s must be >= 1, got %d", ErrInvalidLine, line.SKU, line.Qty)
		}
		if !line.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("%w: unit price for %s must be positive, got %s", ErrInvalidLine, line.SKU, line.UnitPrice)
		}
		product, err := e.catalog.Get(line.SKU)
		if err != nil {
			return nil, err
		}
		if !catalog.ValidCategory(product.Category) {
			return nil, fmt.Errorf("%w: %s has category %q", ErrInvalidCategory, line.SKU, product.Category)
		}
		priced = append(priced, pricedLine{Line: line, category: product.Category})
	}
	return priced, nil
}
