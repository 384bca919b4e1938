package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/common"
	"github.com/noah-isme/backend-caixa/internal/inventory"
)

// Handler exposes per-customer cart endpoints.
type Handler struct {
	Carts *Registry
}

// LineView is the outbound representation of a cart line.
type LineView struct {
	SKU       string `json:"sku"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

// CartView is the outbound representation of a cart.
type CartView struct {
	CustomerID string     `json:"customerId"`
	Lines      []LineView `json:"lines"`
	Subtotal   string     `json:"subtotal"`
}

func (h *Handler) view(customerID string, c *Cart) CartView {
	lines := c.Lines()
	out := CartView{CustomerID: customerID, Lines: make([]LineView, 0, len(lines))}
	for _, l := range lines {
		out.Lines = append(out.Lines, LineView{
			SKU:       l.SKU,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Total:     l.Total().StringFixed(2),
		})
	}
	out.Subtotal = c.Subtotal().StringFixed(2)
	return out
}

// Detail handles GET /api/v1/carts/{customerID}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(customerID, h.Carts.Ensure(customerID))})
}

// AddItem handles POST /api/v1/carts/{customerID}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SKU string `json:"sku"`
		Qty int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	customerID := chi.URLParam(r, "customerID")
	c := h.Carts.Ensure(customerID)
	if err := c.AddItem(payload.SKU, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(customerID, c)})
}

// UpdateItem handles PATCH /api/v1/carts/{customerID}/items/{sku}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	customerID := chi.URLParam(r, "customerID")
	c := h.Carts.Ensure(customerID)
	if err := c.UpdateQty(chi.URLParam(r, "sku"), payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(customerID, c)})
}

// RemoveItem handles DELETE /api/v1/carts/{customerID}/items/{sku}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	c := h.Carts.Ensure(customerID)
	if err := c.RemoveItem(chi.URLParam(r, "sku")); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(customerID, c)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		common.JSONError(w, http.StatusConflict, common.CodeInsufficientStock, err.Error(), map[string]any{
			"sku":       insufficient.SKU,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.Is(err, ErrLineNotFound), errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	}
}
