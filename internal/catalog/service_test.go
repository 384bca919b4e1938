package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/money"
)

func TestNewProductValidation(t *testing.T) {
	_, err := catalog.NewProduct("", "Arroz", money.MustParse("6.00"), "Marca A", catalog.CategoryFood, 1)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = catalog.NewProduct("ARROZ", "Arroz", money.MustParse("0"), "Marca A", catalog.CategoryFood, 1)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = catalog.NewProduct("ARROZ", "Arroz", money.MustParse("6.00"), "Marca A", "brinquedos", 1)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = catalog.NewProduct("ARROZ", "Arroz", money.MustParse("6.00"), "Marca A", catalog.CategoryFood, 25)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	p, err := catalog.NewProduct("ARROZ", "Arroz 1kg", money.MustParse("6.00"), "Marca A", catalog.CategoryFood, 1)
	require.NoError(t, err)
	require.Equal(t, "ARROZ", p.SKU)
}

func TestInstallmentValue(t *testing.T) {
	p, err := catalog.NewProduct("CALCA", "Calça Jeans", money.MustParse("120.00"), "Levis", catalog.CategoryApparel, 6)
	require.NoError(t, err)

	v, err := p.InstallmentValue(3)
	require.NoError(t, err)
	require.Equal(t, "40.00", v.StringFixed(2))

	_, err = p.InstallmentValue(7)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)
	_, err = p.InstallmentValue(0)
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)
}

func TestServiceListOrderAndLookup(t *testing.T) {
	svc := catalog.NewService()
	first, _ := catalog.NewProduct("CAMISETA", "Camiseta", money.MustParse("30.00"), "Hering", catalog.CategoryApparel, 6)
	second, _ := catalog.NewProduct("MEIA", "Meia", money.MustParse("10.00"), "Puket", catalog.CategoryApparel, 6)
	third, _ := catalog.NewProduct("ARROZ", "Arroz 1kg", money.MustParse("6.00"), "Marca A", catalog.CategoryFood, 1)
	require.NoError(t, svc.Add(first))
	require.NoError(t, svc.Add(second))
	require.NoError(t, svc.Add(third))

	require.ErrorIs(t, svc.Add(first), catalog.ErrDuplicateSKU)

	all := svc.List()
	require.Len(t, all, 3)
	require.Equal(t, "CAMISETA", all[0].SKU)
	require.Equal(t, "ARROZ", all[2].SKU)

	apparel, err := svc.ListByCategory(catalog.CategoryApparel)
	require.NoError(t, err)
	require.Len(t, apparel, 2)

	_, err = svc.ListByCategory("brinquedos")
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = svc.Get("NADA")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpdatePrice(t *testing.T) {
	svc := catalog.NewService()
	p, _ := catalog.NewProduct("VASO", "Vaso Decorativo", money.MustParse("89.90"), "Tok&Stok", catalog.CategoryDecor, 5)
	require.NoError(t, svc.Add(p))

	require.NoError(t, svc.UpdatePrice("VASO", money.MustParse("99.90")))
	got, err := svc.Get("VASO")
	require.NoError(t, err)
	require.Equal(t, "99.90", got.UnitPrice.StringFixed(2))

	require.ErrorIs(t, svc.UpdatePrice("VASO", money.MustParse("-1")), catalog.ErrInvalidProduct)
	require.ErrorIs(t, svc.UpdatePrice("NADA", money.MustParse("1.00")), catalog.ErrNotFound)
}
