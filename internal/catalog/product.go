package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/money"
)

// Category classifies a product for tax purposes. The set is fixed; a
// category outside it indicates a contract violation upstream.
type Category string

const (
	CategoryAppliance    Category = "eletrodomestico"
	CategoryDecor        Category = "decoracao"
	CategoryConstruction Category = "construcao"
	CategoryApparel      Category = "vestuario"
	CategoryFood         Category = "alimentos"
)

// Categories lists every valid category in its canonical order. The order
// is load-bearing: tax remainder allocation assigns the rounding residue to
// the last category present in a cart, following this sequence.
func Categories() []Category {
	return []Category{
		CategoryAppliance,
		CategoryDecor,
		CategoryConstruction,
		CategoryApparel,
		CategoryFood,
	}
}

// ValidCategory reports whether c belongs to the fixed enumeration.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAppliance, CategoryDecor, CategoryConstruction, CategoryApparel, CategoryFood:
		return true
	}
	return false
}

// Installment bounds shared by every product.
const (
	MinInstallments = 1
	MaxInstallments = 24
)

// ErrInvalidProduct is returned when product attributes fail validation.
var ErrInvalidProduct = errors.New("invalid product")

// Product describes a catalog entry. Immutable except for the unit price,
// which the catalog may update; cart lines freeze the price at add time.
type Product struct {
	SKU             string
	Name            string
	UnitPrice       decimal.Decimal
	Manufacturer    string
	Category        Category
	MaxInstallments int
}

// NewProduct validates the attributes and returns a Product. No product is
// ever constructed in an invalid state.
func NewProduct(sku, name string, unitPrice decimal.Decimal, manufacturer string, category Category, maxInstallments int) (Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return Product{}, fmt.Errorf("%w: sku is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if !unitPrice.IsPositive() {
		return Product{}, fmt.Errorf("%w: unit price must be positive, got %s", ErrInvalidProduct, unitPrice)
	}
	if !ValidCategory(category) {
		return Product{}, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, category)
	}
	if maxInstallments < MinInstallments || maxInstallments > MaxInstallments {
		return Product{}, fmt.Errorf("%w: max installments must be within [%d,%d], got %d",
			ErrInvalidProduct, MinInstallments, MaxInstallments, maxInstallments)
	}
	return Product{
		SKU:             sku,
		Name:            strings.TrimSpace(name),
		UnitPrice:       unitPrice,
		Manufacturer:    strings.TrimSpace(manufacturer),
		Category:        category,
		MaxInstallments: maxInstallments,
	}, nil
}

// InstallmentValue quotes the per-installment amount for paying the current
// unit price in n installments.
func (p Product) InstallmentValue(n int) (decimal.Decimal, error) {
	if n < MinInstallments || n > p.MaxInstallments {
		return decimal.Zero, fmt.Errorf("%w: installments must be within [%d,%d] for %s, got %d",
			ErrInvalidProduct, MinInstallments, p.MaxInstallments, p.SKU, n)
	}
	return money.Round2(p.UnitPrice.Div(decimal.NewFromInt(int64(n)))), nil
}
