package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-caixa/internal/common"
)

// Handler exposes stock level endpoints.
type Handler struct {
	Service *Service
}

// StockView is the outbound representation of a stock level.
type StockView struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Quantity handles GET /api/v1/inventory/{sku}.
func (h *Handler) Quantity(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	common.JSON(w, http.StatusOK, map[string]any{"data": StockView{SKU: sku, Quantity: h.Service.Quantity(sku)}})
}

// SetQuantity handles PUT /api/v1/inventory/{sku}.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	sku := chi.URLParam(r, "sku")
	if err := h.Service.SetQuantity(sku, payload.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": StockView{SKU: sku, Quantity: h.Service.Quantity(sku)}})
}

// Restock handles POST /api/v1/inventory/{sku}/restock.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	sku := chi.URLParam(r, "sku")
	if err := h.Service.Add(sku, payload.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": StockView{SKU: sku, Quantity: h.Service.Quantity(sku)}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		common.JSONError(w, http.StatusConflict, common.CodeInsufficientStock, err.Error(), map[string]any{
			"sku":       insufficient.SKU,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.Is(err, ErrInvalidQuantity):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unexpected error", nil)
	}
}
