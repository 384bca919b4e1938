package receipt

import (
	"fmt"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/money"
	"github.com/noah-isme/backend-caixa/internal/order"
)

const divider = "--------------------------------"

// CatalogReader resolves display names for receipt lines.
type CatalogReader interface {
	Get(sku string) (catalog.Product, error)
}

// Renderer formats an order's breakdown into display lines. Formatting is
// display-only; the stored numeric precision is never touched.
type Renderer struct {
	Catalog CatalogReader
}

// Render produces the receipt for an order: header, one line per item,
// subtotal, one line per discount, tax per category, shipping, total and
// status. Unknown skus fall back to the sku itself so a stale catalog
// never breaks printing.
func (r Renderer) Render(o *order.Order) []string {
	lines := []string{
		"================================",
		"RECEIPT",
		"Order: " + o.ID,
		"Customer: " + o.CustomerID,
		"Date: " + o.CreatedAt.Format("2006-01-02 15:04:05"),
		divider,
	}

	for _, item := range o.Lines {
		lines = append(lines, fmt.Sprintf("%s x%d @ %s = %s",
			r.displayName(item.SKU), item.Qty, money.FormatBRL(item.UnitPrice), money.FormatBRL(item.Total())))
	}

	lines = append(lines, divider, "Subtotal: "+money.FormatBRL(o.Breakdown.Subtotal))
	for _, d := range o.Breakdown.Discounts {
		lines = append(lines, fmt.Sprintf("Discount %s: -%s (%s)", d.Code, money.FormatBRL(d.Amount), d.Description))
	}
	for _, c := range catalog.Categories() {
		if tax, ok := o.Breakdown.TaxByCategory[c]; ok {
			lines = append(lines, fmt.Sprintf("Tax (%s): %s", c, money.FormatBRL(tax)))
		}
	}
	lines = append(lines,
		"Shipping: "+money.FormatBRL(o.Breakdown.Shipping),
		"Total: "+money.FormatBRL(o.Breakdown.Total),
	)
	if o.Installments > 1 {
		lines = append(lines, fmt.Sprintf("Installments: %dx of %s", o.Installments, money.FormatBRL(o.InstallmentValue)))
	}
	lines = append(lines, "Status: "+string(o.Status), "================================")
	return lines
}

func (r Renderer) displayName(sku string) string {
	if r.Catalog == nil {
		return sku
	}
	p, err := r.Catalog.Get(sku)
	if err != nil {
		return sku
	}
	return p.Name
}
