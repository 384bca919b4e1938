package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-caixa/internal/common"
	"github.com/noah-isme/backend-caixa/internal/events"
	"github.com/noah-isme/backend-caixa/internal/pricing"
)

// Recorder receives paid orders for aggregation.
type Recorder interface {
	Record(o *Order) error
}

// ReceiptRenderer turns an order into display lines.
type ReceiptRenderer interface {
	Render(o *Order) []string
}

// Handler exposes order lifecycle endpoints.
type Handler struct {
	Store    *Store
	Events   *events.Bus
	Ledger   Recorder
	Receipts ReceiptRenderer
}

// LineView is the outbound representation of an order line.
type LineView struct {
	SKU       string `json:"sku"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

// OrderView is the outbound representation of an order.
type OrderView struct {
	ID               string            `json:"id"`
	CustomerID       string            `json:"customerId"`
	Lines            []LineView        `json:"lines"`
	Breakdown        pricing.Breakdown `json:"breakdown"`
	Status           string            `json:"status"`
	Installments     int               `json:"installments"`
	InstallmentValue string            `json:"installmentValue"`
	CreatedAt        string            `json:"createdAt"`
}

// ToView builds the outbound representation of an order.
func ToView(o *Order) OrderView {
	view := OrderView{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		Lines:            make([]LineView, 0, len(o.Lines)),
		Breakdown:        o.Breakdown,
		Status:           string(o.Status),
		Installments:     o.Installments,
		InstallmentValue: o.InstallmentValue.StringFixed(2),
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
	}
	for _, l := range o.Lines {
		view.Lines = append(view.Lines, LineView{
			SKU:       l.SKU,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Total:     l.Total().StringFixed(2),
		})
	}
	return view
}

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	orders := h.Store.List()
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ToView(o))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Detail handles GET /api/v1/orders/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ToView(o)})
}

// Pay handles POST /api/v1/orders/{id}/pay. Paying an already paid
// order returns the order unchanged.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	wasOpen := o.Status == StatusOpen
	if err := o.Pay(); err != nil {
		h.writeError(w, err)
		return
	}
	if wasOpen {
		if err := h.Ledger.Record(o); err != nil {
			// Revert the transition so a retried pay records the sale;
			// a PAID order must never be missing from the ledger.
			o.Status = StatusOpen
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, err.Error(), nil)
			return
		}
		h.emit(r.Context(), events.TopicOrderPaid, o)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ToView(o)})
}

// Cancel handles POST /api/v1/orders/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	wasOpen := o.Status == StatusOpen
	if err := o.Cancel(); err != nil {
		h.writeError(w, err)
		return
	}
	if wasOpen {
		h.emit(r.Context(), events.TopicOrderCancelled, o)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ToView(o)})
}

// Receipt handles GET /api/v1/orders/{id}/receipt as plain text.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	o, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.PlainLines(w, http.StatusOK, h.Receipts.Render(o))
}

func (h *Handler) emit(ctx context.Context, topic string, o *Order) {
	if h.Events == nil {
		return
	}
	// Notifier failures are logged by the bus and never fail the request.
	_, _ = h.Events.Emit(ctx, topic, o.ID, map[string]any{
		"customerId": o.CustomerID,
		"total":      o.Breakdown.Total.StringFixed(2),
		"status":     string(o.Status),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrAlreadyCancelled):
		common.JSONError(w, http.StatusConflict, common.CodeConflict, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unexpected error", nil)
	}
}
