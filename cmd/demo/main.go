// Command demo runs the checkout scenarios end to end against the seeded
// in-memory catalog and prints receipts plus the final sales report.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/checkout"
	"github.com/noah-isme/backend-caixa/internal/config"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/ledger"
	"github.com/noah-isme/backend-caixa/internal/money"
	"github.com/noah-isme/backend-caixa/internal/obs"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
	"github.com/noah-isme/backend-caixa/internal/receipt"
	"github.com/noah-isme/backend-caixa/internal/seed"
)

type env struct {
	logger    zerolog.Logger
	inventory *inventory.Service
	customers *customer.Registry
	carts     *cart.Registry
	checkout  *checkout.Service
	ledger    *ledger.Service
	renderer  receipt.Renderer
	bus       *events.Bus
}

func main() {
	cfg := config.MustLoad()
	logger := obs.NewLogger("console", cfg.LogLevel)

	catalogSvc := catalog.NewService()
	inventorySvc := inventory.NewService()
	if err := seed.Load(catalogSvc, inventorySvc); err != nil {
		logger.Fatal().Err(err).Msg("seed catalog")
	}

	engine, err := pricing.NewEngine(catalogSvc, cfg.ShippingFlatFee)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure pricing engine")
	}

	bus := &events.Bus{Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}}}
	e := &env{
		logger:    logger,
		inventory: inventorySvc,
		customers: customer.NewRegistry(),
		carts:     cart.NewRegistry(catalogSvc, inventorySvc),
		checkout: &checkout.Service{
			Catalog:   catalogSvc,
			Inventory: inventorySvc,
			Engine:    engine,
			Orders:    order.NewStore(),
			Events:    bus,
		},
		ledger:   ledger.NewService(catalogSvc),
		renderer: receipt.Renderer{Catalog: catalogSvc},
		bus:      bus,
	}

	vip, err := customer.New("", "Ana Souza", customer.TierVIP, 120)
	if err != nil {
		logger.Fatal().Err(err).Msg("create customer")
	}
	regular, err := customer.New("", "Bruno Lima", customer.TierRegular, 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("create customer")
	}
	for _, c := range []*customer.Customer{vip, regular} {
		if err := e.customers.Register(c); err != nil {
			logger.Fatal().Err(err).Msg("register customer")
		}
	}

	e.vipApparelBundle(vip)
	e.couponWithThreshold(regular)
	e.invalidCoupon(regular)
	e.stockShortfall(regular)
	e.report()
}

// A VIP customer buys four apparel units with no coupon: the bundle rule
// discounts the cheapest unit of the triplet and VIP 5% applies on top.
func (e *env) vipApparelBundle(cust *customer.Customer) {
	fmt.Println("== Scenario A: VIP apparel bundle ==")
	crt := e.carts.Ensure(cust.ID)
	e.mustAdd(crt, "CAMISETA", 2)
	e.mustAdd(crt, "MEIA", 1)
	e.mustAdd(crt, "CALCA", 1)
	e.closeAndPay(cust, crt, pricing.CouponNone, 3)
}

// A regular customer crosses the 500 threshold with PERCENT10 applied.
func (e *env) couponWithThreshold(cust *customer.Customer) {
	fmt.Println("== Scenario B: PERCENT10 with threshold ==")
	crt := e.carts.Ensure(cust.ID)
	e.mustAdd(crt, "MICRO", 1)
	e.mustAdd(crt, "VASO", 1)
	e.closeAndPay(cust, crt, pricing.CouponPercent10, 1)
}

// An unknown coupon fails before any stock is touched.
func (e *env) invalidCoupon(cust *customer.Customer) {
	fmt.Println("== Scenario C: invalid coupon ==")
	crt := e.carts.Ensure(cust.ID)
	e.mustAdd(crt, "CIMENTO", 1)
	before := e.inventory.Quantity("CIMENTO")
	_, err := e.checkout.CloseOrder(context.Background(), cust, crt, "INVALIDO", 1)
	fmt.Printf("checkout rejected: %v\n", err)
	fmt.Printf("CIMENTO stock unchanged: %d == %d\n\n", before, e.inventory.Quantity("CIMENTO"))
	if err := crt.RemoveItem("CIMENTO"); err != nil {
		e.logger.Fatal().Err(err).Msg("reset cart")
	}
}

// Requesting far more units than the inventory holds names the sku and
// the available quantity.
func (e *env) stockShortfall(cust *customer.Customer) {
	fmt.Println("== Scenario D: stock shortfall ==")
	crt := e.carts.Ensure(cust.ID)
	err := crt.AddItem("MICRO", 999)
	fmt.Printf("add to cart rejected: %v\n\n", err)
}

// The sales report aggregates the two paid orders.
func (e *env) report() {
	fmt.Println("== Scenario E: sales report ==")
	fmt.Printf("orders recorded:  %d\n", e.ledger.OrdersRecorded())
	fmt.Printf("total revenue:    %s\n", money.FormatBRL(e.ledger.TotalRevenue()))
	fmt.Printf("total tax:        %s\n", money.FormatBRL(e.ledger.TotalTax()))
	fmt.Printf("total discount:   %s\n", money.FormatBRL(e.ledger.TotalDiscount()))
	for _, row := range e.ledger.TopProducts(3) {
		fmt.Printf("top product:      %s x%d\n", row.SKU, row.Qty)
	}
	revenue := e.ledger.RevenueByCategory()
	for _, category := range catalog.Categories() {
		if amount, ok := revenue[category]; ok {
			fmt.Printf("revenue %-16s %s\n", string(category)+":", money.FormatBRL(amount))
		}
	}
	fmt.Printf("events emitted:   %d\n", len(e.bus.Events()))
}

func (e *env) mustAdd(crt *cart.Cart, sku string, qty int) {
	if err := crt.AddItem(sku, qty); err != nil {
		e.logger.Fatal().Str("sku", sku).Err(err).Msg("add to cart")
	}
}

func (e *env) closeAndPay(cust *customer.Customer, crt *cart.Cart, coupon pricing.Coupon, installments int) {
	o, err := e.checkout.CloseOrder(context.Background(), cust, crt, string(coupon), installments)
	if err != nil {
		e.logger.Fatal().Err(err).Msg("checkout")
	}
	if err := o.Pay(); err != nil {
		e.logger.Fatal().Err(err).Msg("pay order")
	}
	if err := e.ledger.Record(o); err != nil {
		e.logger.Fatal().Err(err).Msg("record order")
	}
	if _, err := e.bus.Emit(context.Background(), events.TopicOrderPaid, o.ID, map[string]any{
		"customerId": o.CustomerID,
		"total":      o.Breakdown.Total.StringFixed(2),
	}); err != nil {
		e.logger.Error().Err(err).Msg("emit order.paid")
	}
	for _, line := range e.renderer.Render(o) {
		fmt.Println(line)
	}
	fmt.Fprintln(os.Stdout)
}
