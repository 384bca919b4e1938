// Package seed loads the demonstration catalog and stock levels used by
// the API, the demo driver and the test suites.
package seed

import (
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/money"
)

type entry struct {
	sku             string
	name            string
	price           string
	manufacturer    string
	category        catalog.Category
	maxInstallments int
	stock           int
}

var entries = []entry{
	{"ARROZ", "Arroz 1kg", "6.00", "Marca A", catalog.CategoryFood, 1, 50},
	{"FEIJAO", "Feijão 1kg", "7.50", "Marca B", catalog.CategoryFood, 1, 50},
	{"OLEO", "Óleo 900ml", "8.00", "Marca C", catalog.CategoryFood, 1, 50},
	{"CAMISETA", "Camiseta", "30.00", "Hering", catalog.CategoryApparel, 6, 20},
	{"CALCA", "Calça Jeans", "120.00", "Levis", catalog.CategoryApparel, 6, 10},
	{"MEIA", "Meia", "10.00", "Puket", catalog.CategoryApparel, 6, 30},
	{"MICRO", "Micro-ondas", "499.90", "LG", catalog.CategoryAppliance, 12, 5},
	{"LIQUID", "Liquidificador", "199.90", "Philco", catalog.CategoryAppliance, 10, 8},
	{"VASO", "Vaso Decorativo", "89.90", "Tok&Stok", catalog.CategoryDecor, 5, 10},
	{"CIMENTO", "Cimento 25kg", "35.00", "Holcim", catalog.CategoryConstruction, 3, 100},
}

// Load registers the demonstration products and their stock levels.
func Load(cat *catalog.Service, inv *inventory.Service) error {
	for _, e := range entries {
		p, err := catalog.NewProduct(e.sku, e.name, money.MustParse(e.price), e.manufacturer, e.category, e.maxInstallments)
		if err != nil {
			return err
		}
		if err := cat.Add(p); err != nil {
			return err
		}
		if err := inv.SetQuantity(e.sku, e.stock); err != nil {
			return err
		}
	}
	return nil
}
