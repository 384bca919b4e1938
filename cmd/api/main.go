package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/checkout"
	"github.com/noah-isme/backend-caixa/internal/config"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/health"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/ledger"
	"github.com/noah-isme/backend-caixa/internal/obs"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
	"github.com/noah-isme/backend-caixa/internal/receipt"
	"github.com/noah-isme/backend-caixa/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var httpMetrics *obs.HTTPMetrics
	var domainMetrics *obs.DomainMetrics
	if cfg.MetricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, registry)
		domainMetrics = obs.NewDomainMetrics(cfg.MetricsNamespace, registry)
	}

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
	if domainMetrics != nil {
		bus.Notifiers = append(bus.Notifiers, domainMetrics)
	}

	customers := customer.NewRegistry()
	carts := cart.NewRegistry(catalogSvc, inventorySvc)
	orders := order.NewStore()
	ledgerSvc := ledger.NewService(catalogSvc)
	checkoutSvc := &checkout.Service{
		Catalog:   catalogSvc,
		Inventory: inventorySvc,
		Engine:    engine,
		Orders:    orders,
		Events:    bus,
	}

	validate := validator.New()

	catalogHandler := &catalog.Handler{Service: catalogSvc, Validate: validate}
	inventoryHandler := &inventory.Handler{Service: inventorySvc}
	customerHandler := &customer.Handler{Registry: customers, Validate: validate}
	cartHandler := &cart.Handler{Carts: carts}
	checkoutHandler := &checkout.Handler{Checkout: checkoutSvc, Customers: customers, Carts: carts, Validate: validate}
	orderHandler := &order.Handler{
		Store:    orders,
		Events:   bus,
		Ledger:   ledgerSvc,
		Receipts: receipt.Renderer{Catalog: catalogSvc},
	}
	ledgerHandler := &ledger.Handler{Service: ledgerSvc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	healthHandler := health.Handler{Checks: []health.Check{
		{Name: "catalog", Probe: func() error {
			if len(catalogSvc.List()) == 0 {
				return errors.New("catalog empty")
			}
			return nil
		}},
	}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Post("/products", catalogHandler.Create)
		v.Get("/products/{sku}", catalogHandler.ProductDetail)
		v.Get("/products/{sku}/installments", catalogHandler.InstallmentQuote)
		v.Patch("/products/{sku}/price", catalogHandler.UpdatePrice)

		v.Route("/inventory", func(i chi.Router) {
			i.Get("/{sku}", inventoryHandler.Quantity)
			i.Put("/{sku}", inventoryHandler.SetQuantity)
			i.Post("/{sku}/restock", inventoryHandler.Restock)
		})

		v.Route("/customers", func(c chi.Router) {
			c.Post("/", customerHandler.Register)
			c.Get("/{id}", customerHandler.Detail)
			c.Post("/{id}/points", customerHandler.Points)
		})

		v.Route("/carts", func(c chi.Router) {
			c.Get("/{customerID}", cartHandler.Detail)
			c.Post("/{customerID}/items", cartHandler.AddItem)
			c.Patch("/{customerID}/items/{sku}", cartHandler.UpdateItem)
			c.Delete("/{customerID}/items/{sku}", cartHandler.RemoveItem)
		})

		v.Post("/checkout", checkoutHandler.Close)

		v.Route("/orders", func(o chi.Router) {
			o.Get("/", orderHandler.List)
			o.Get("/{id}", orderHandler.Detail)
			o.Post("/{id}/pay", orderHandler.Pay)
			o.Post("/{id}/cancel", orderHandler.Cancel)
			o.Get("/{id}/receipt", orderHandler.Receipt)
		})

		v.Route("/reports", func(rep chi.Router) {
			rep.Get("/summary", ledgerHandler.Summary)
			rep.Get("/top-products", ledgerHandler.TopProducts)
			rep.Get("/revenue-by-category", ledgerHandler.RevenueByCategory)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	health.SetReady(false)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
