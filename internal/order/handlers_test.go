package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/checkout"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/ledger"
	"github.com/noah-isme/backend-caixa/internal/money"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
	"github.com/noah-isme/backend-caixa/internal/receipt"
	"github.com/noah-isme/backend-caixa/internal/seed"
)

type fixture struct {
	router *chi.Mux
	orders *order.Store
	ledger *ledger.Service
	bus    *events.Bus
	placed *order.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := catalog.NewService()
	inv := inventory.NewService()
	require.NoError(t, seed.Load(cat, inv))

	engine, err := pricing.NewEngine(cat, money.MustParse("15.00"))
	require.NoError(t, err)

	bus := &events.Bus{}
	orders := order.NewStore()
	svc := &checkout.Service{Catalog: cat, Inventory: inv, Engine: engine, Orders: orders, Events: bus}

	cust, err := customer.New("C1", "Ana", customer.TierVIP, 0)
	require.NoError(t, err)
	crt := cart.New(cat, inv)
	require.NoError(t, crt.AddItem("CAMISETA", 2))
	require.NoError(t, crt.AddItem("MEIA", 1))
	require.NoError(t, crt.AddItem("CALCA", 1))
	placed, err := svc.CloseOrder(context.Background(), cust, crt, "", 3)
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(cat)
	handler := &order.Handler{
		Store:    orders,
		Events:   bus,
		Ledger:   ledgerSvc,
		Receipts: receipt.Renderer{Catalog: cat},
	}

	r := chi.NewRouter()
	r.Get("/orders/{id}", handler.Detail)
	r.Post("/orders/{id}/pay", handler.Pay)
	r.Post("/orders/{id}/cancel", handler.Cancel)
	r.Get("/orders/{id}/receipt", handler.Receipt)

	return &fixture{router: r, orders: orders, ledger: ledgerSvc, bus: bus, placed: placed}
}

func (f *fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestPayRecordsLedgerAndEmitsEvent(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/pay")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data order.OrderView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, string(order.StatusPaid), body.Data.Status)

	require.Equal(t, 1, f.ledger.OrdersRecorded())
	require.Equal(t, f.placed.Breakdown.Total.StringFixed(2), f.ledger.TotalRevenue().StringFixed(2))

	log := f.bus.Events()
	require.Len(t, log, 2)
	require.Equal(t, events.TopicOrderCreated, log[0].Topic)
	require.Equal(t, events.TopicOrderPaid, log[1].Topic)
}

func TestPayTwiceRecordsOnce(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/pay").Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/pay").Code)

	require.Equal(t, 1, f.ledger.OrdersRecorded())
	require.Len(t, f.bus.Events(), 2)
}

func TestCancelPaidOrderConflicts(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/pay").Code)
	rr := f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/cancel")
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestCancelSkipsLedger(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/cancel")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 0, f.ledger.OrdersRecorded())

	log := f.bus.Events()
	require.Len(t, log, 2)
	require.Equal(t, events.TopicOrderCancelled, log[1].Topic)
}

func TestReceiptEndpointRendersPlainText(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/orders/"+f.placed.ID+"/pay").Code)

	rr := f.do(t, http.MethodGet, "/orders/"+f.placed.ID+"/receipt")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")

	body := rr.Body.String()
	require.Contains(t, body, "RECEIPT")
	require.Contains(t, body, "Camiseta x2 @ R$ 30,00 = R$ 60,00")
	require.Contains(t, body, "Total: R$ 224,72")
	require.Contains(t, body, "Installments: 3x of R$ 74,91")
}

func TestOrderNotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/orders/missing")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodPost, "/orders/missing/pay")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

type flakyRecorder struct {
	failures int
	recorded []*order.Order
}

func (f *flakyRecorder) Record(o *order.Order) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("ledger unavailable")
	}
	f.recorded = append(f.recorded, o)
	return nil
}

func TestPayRevertsWhenLedgerFails(t *testing.T) {
	store := order.NewStore()
	o := order.New("C1", nil, pricing.Breakdown{}, 1, time.Now())
	store.Add(o)

	recorder := &flakyRecorder{failures: 1}
	handler := &order.Handler{Store: store, Ledger: recorder}
	r := chi.NewRouter()
	r.Post("/orders/{id}/pay", handler.Pay)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders/"+o.ID+"/pay", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, order.StatusOpen, o.Status)
	require.Empty(t, recorder.recorded)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders/"+o.ID+"/pay", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, order.StatusPaid, o.Status)
	require.Len(t, recorder.recorded, 1)
}
