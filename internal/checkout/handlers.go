package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-caixa/internal/cart"
	"github.com/noah-isme/backend-caixa/internal/common"
	"github.com/noah-isme/backend-caixa/internal/customer"
	"github.com/noah-isme/backend-caixa/internal/inventory"
	"github.com/noah-isme/backend-caixa/internal/order"
	"github.com/noah-isme/backend-caixa/internal/pricing"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Checkout  *Service
	Customers *customer.Registry
	Carts     *cart.Registry
	Validate  *validator.Validate
}

// CheckoutPayload is the inbound representation for closing an order.
type CheckoutPayload struct {
	CustomerID   string `json:"customerId" validate:"required"`
	Coupon       string `json:"coupon"`
	Installments int    `json:"installments" validate:"min=1,max=24"`
}

// Close handles POST /api/v1/checkout.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	var payload CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	if payload.Installments == 0 {
		payload.Installments = 1
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	cust, err := h.Customers.Get(payload.CustomerID)
	if err != nil {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, err.Error(), nil)
		return
	}
	crt := h.Carts.Ensure(payload.CustomerID)
	o, err := h.Checkout.CloseOrder(r.Context(), cust, crt, payload.Coupon, payload.Installments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": order.ToView(o)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	var limit *InstallmentLimitError
	switch {
	case errors.As(err, &insufficient):
		common.JSONError(w, http.StatusConflict, common.CodeInsufficientStock, err.Error(), map[string]any{
			"sku":       insufficient.SKU,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &limit):
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeInstallmentLimit, err.Error(), map[string]any{
			"sku":       limit.SKU,
			"max":       limit.Max,
			"requested": limit.Requested,
		})
	case errors.Is(err, pricing.ErrInvalidCoupon):
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidCoupon, err.Error(), nil)
	case errors.Is(err, pricing.ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeEmptyCart, err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unexpected error", nil)
	}
}
