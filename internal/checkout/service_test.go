package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/checkout"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/money"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
	"github.com/noah-isme/backend-caixa/internal/seed"
)

type env struct {
	catalog   *catalog.Service
	inventory *inventory.Service
	service   *checkout.Service
	bus       *events.Bus
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cat := catalog.NewService()
	inv := inventory.NewService()
	require.NoError(t, seed.Load(cat, inv))

	engine, err := pricing.NewEngine(cat, money.MustParse("15.00"))
	require.NoError(t, err)

	bus := &events.Bus{}
	svc := &checkout.Service{
		Catalog:   cat,
		Inventory: inv,
		Engine:    engine,
		Orders:    order.NewStore(),
		Events:    bus,
		Now:       func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) },
	}
	return &env{catalog: cat, inventory: inv, service: svc, bus: bus}
}

func vip(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.New("C1", "Ana", customer.TierVIP, 0)
	require.NoError(t, err)
	return c
}

func regular(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.New("C2", "Bruno", customer.TierRegular, 0)
	require.NoError(t, err)
	return c
}

func TestCloseOrderDeductsStockAndClearsCart(t *testing.T) {
	e := newEnv(t)
	crt := cart.New(e.catalog, e.inventory)
	require.NoError(t, crt.AddItem("CAMISETA", 2))
	require.NoError(t, crt.AddItem("MEIA", 1))
	require.NoError(t, crt.AddItem("CALCA", 1))

	o, err := e.service.CloseOrder(context.Background(), vip(t), crt, "", 3)
	require.NoError(t, err)

	require.Equal(t, order.StatusOpen, o.Status)
	require.Equal(t, "C1", o.CustomerID)
	require.Equal(t, "190.00", o.Breakdown.Subtotal.StringFixed(2))
	require.Equal(t, "19.50", o.Breakdown.TotalDiscount.StringFixed(2))
	require.Equal(t, 3, o.Installments)

	require.Equal(t, 18, e.inventory.Quantity("CAMISETA"))
	require.Equal(t, 29, e.inventory.Quantity("MEIA"))
	require.Equal(t, 9, e.inventory.Quantity("CALCA"))
	require.Empty(t, crt.Lines())

	stored, err := e.service.Orders.Get(o.ID)
	require.NoError(t, err)
	require.Same(t, o, stored)

	log := e.bus.Events()
	require.Len(t, log, 1)
	require.Equal(t, events.TopicOrderCreated, log[0].Topic)
	require.Equal(t, o.ID, log[0].AggregateID)
}

func TestCloseOrderEmptyCart(t *testing.T) {
	e := newEnv(t)
	crt := cart.New(e.catalog, e.inventory)
	_, err := e.service.CloseOrder(context.Background(), regular(t), crt, "", 1)
	require.ErrorIs(t, err, pricing.ErrEmptyCart)
}

func TestCloseOrderInvalidCouponLeavesStateUntouched(t *testing.T) {
	e := newEnv(t)
	crt := cart.New(e.catalog, e.inventory)
	require.NoError(t, crt.AddItem("ARROZ", 1))
	before := e.inventory.Quantity("ARROZ")

	_, err := e.service.CloseOrder(context.Background(), regular(t), crt, "INVALIDO", 1)
	require.ErrorIs(t, err, pricing.ErrInvalidCoupon)

	require.Equal(t, before, e.inventory.Quantity("ARROZ"))
	require.Len(t, crt.Lines(), 1)
	require.Empty(t, e.service.Orders.List())
	require.Empty(t, e.bus.Events())
}

func TestCloseOrderInsufficientStock(t *testing.T) {
	e := newEnv(t)
	// bypass the cart's own stock validation to exercise checkout's check
	crt := cart.New(e.catalog, e.inventory)
	require.NoError(t, crt.AddItem("MICRO", 5))
	require.NoError(t, e.inventory.SetQuantity("MICRO", 2))

	_, err := e.service.CloseOrder(context.Background(), regular(t), crt, "", 1)
	var shortfall *inventory.InsufficientStockError
	require.ErrorAs(t, err, &shortfall)
	require.Equal(t, "MICRO", shortfall.SKU)
	require.Equal(t, 2, shortfall.Available)

	require.Equal(t, 2, e.inventory.Quantity("MICRO"))
	require.Len(t, crt.Lines(), 1)
}

func TestCloseOrderInstallmentLimit(t *testing.T) {
	e := newEnv(t)
	crt := cart.New(e.catalog, e.inventory)
	require.NoError(t, crt.AddItem("ARROZ", 1)) // max 1 installment
	before := e.inventory.Quantity("ARROZ")

	_, err := e.service.CloseOrder(context.Background(), regular(t), crt, "", 2)
	var limit *checkout.InstallmentLimitError
	require.ErrorAs(t, err, &limit)
	require.Equal(t, "ARROZ", limit.SKU)
	require.Equal(t, 1, limit.Max)
	require.Equal(t, 2, limit.Requested)
	require.Equal(t, before, e.inventory.Quantity("ARROZ"))
}

func TestCloseOrderValidatesInstallmentRange(t *testing.T) {
	e := newEnv(t)
	crt := cart.New(e.catalog, e.inventory)
	require.NoError(t, crt.AddItem("ARROZ", 1))

	_, err := e.service.CloseOrder(context.Background(), regular(t), crt, "", 0)
	require.ErrorIs(t, err, checkout.ErrInvalidInput)
	_, err = e.service.CloseOrder(context.Background(), regular(t), crt, "", 25)
	require.ErrorIs(t, err, checkout.ErrInvalidInput)
}
