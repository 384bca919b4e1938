package obs

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/backend-caixa/internal/events"
)

// DomainMetrics counts business events emitted by the checkout flow.
type DomainMetrics struct {
	OrdersTotal      *prometheus.CounterVec
	CheckoutFailures *prometheus.CounterVec
	LedgerRevenue    prometheus.Gauge
}

// NewDomainMetrics registers the domain collectors on reg.
func NewDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	m := &DomainMetrics{
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_total",
			Help:      "Order lifecycle events by topic.",
		}, []string{"topic"}),
		CheckoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_failures_total",
			Help:      "Checkout attempts rejected, by reason.",
		}, []string{"reason"}),
		LedgerRevenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_revenue_total",
			Help:      "Gross revenue recorded in the sales ledger.",
		}),
	}
	reg.MustRegister(m.OrdersTotal, m.CheckoutFailures, m.LedgerRevenue)
	return m
}

// Notify implements events.Notifier so the bus can feed the counters.
func (m *DomainMetrics) Notify(_ context.Context, evt events.Event) error {
	m.OrdersTotal.WithLabelValues(evt.Topic).Inc()
	return nil
}
