package customer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-caixa/internal/common"
)

// Handler exposes customer registration and loyalty endpoints.
type Handler struct {
	Registry *Registry
	Validate *validator.Validate
}

// CustomerPayload is the inbound representation for registration.
type CustomerPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name" validate:"required"`
	Tier          string `json:"tier" validate:"required"`
	LoyaltyPoints int    `json:"loyaltyPoints" validate:"min=0"`
}

// CustomerView is the outbound representation of a customer.
type CustomerView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Tier          string `json:"tier"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

func toView(c *Customer) CustomerView {
	return CustomerView{ID: c.ID, Name: c.Name, Tier: string(c.Tier), LoyaltyPoints: c.LoyaltyPoints}
}

// Register handles POST /api/v1/customers.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	c, err := New(payload.ID, payload.Name, Tier(payload.Tier), payload.LoyaltyPoints)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Registry.Register(c); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toView(c)})
}

// Detail handles GET /api/v1/customers/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	c, err := h.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toView(c)})
}

// Points handles POST /api/v1/customers/{id}/points with a signed delta:
// positive values accrue, negative values redeem.
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	c, err := h.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if payload.Delta >= 0 {
		err = c.AddPoints(payload.Delta)
	} else {
		err = c.RedeemPoints(-payload.Delta)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toView(c)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrInvalidCustomer):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unexpected error", nil)
	}
}
