package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/money"
)

var (
	standardTaxRate = decimal.New(23, -2) // 0.23
	foodTaxRate     = decimal.New(6, -2)  // 0.06
)

// TaxRate returns the tax rate for a category: 6% for food, 23% otherwise.
func TaxRate(c catalog.Category) decimal.Decimal {
	if c == catalog.CategoryFood {
		return foodTaxRate
	}
	return standardTaxRate
}

// allocateTax distributes the taxable base over the categories present in
// the lines, proportionally to each category's share of the undiscounted
// subtotal (discounts are not inherently per-category). Each share is
// rounded half-up; the last category present, following the canonical
// category order, absorbs the rounding remainder so the shares sum exactly
// to the taxable base. Tax per category is then round2(share × rate).
func allocateTax(lines []pricedLine, subtotal, taxableBase decimal.Decimal) (map[catalog.Category]decimal.Decimal, decimal.Decimal) {
	perCategory := make(map[catalog.Category]decimal.Decimal)
	for _, line := range lines {
		perCategory[line.category] = perCategory[line.category].Add(line.Total())
	}

	var present []catalog.Category
	for _, c := range catalog.Categories() {
		if _, ok := perCategory[c]; ok {
			present = append(present, c)
		}
	}

	taxes := make(map[catalog.Category]decimal.Decimal, len(present))
	totalTax := decimal.Zero
	allocated := decimal.Zero
	for i, c := range present {
		var share decimal.Decimal
		if i == len(present)-1 {
			share = taxableBase.Sub(allocated)
			if share.IsNegative() {
				share = decimal.Zero
			}
		} else {
			share = money.Round2(taxableBase.Mul(perCategory[c]).Div(subtotal))
			allocated = allocated.Add(share)
		}
		tax := money.Round2(share.Mul(TaxRate(c)))
		taxes[c] = tax
		totalTax = totalTax.Add(tax)
	}
	return taxes, totalTax
}
