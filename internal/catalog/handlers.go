package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/common"
)

// Handler exposes catalog endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

// ProductPayload is the inbound representation for product creation.
type ProductPayload struct {
	SKU             string `json:"sku" validate:"required"`
	Name            string `json:"name" validate:"required"`
	UnitPrice       string `json:"unitPrice" validate:"required"`
	Manufacturer    string `json:"manufacturer"`
	Category        string `json:"category" validate:"required"`
	MaxInstallments int    `json:"maxInstallments" validate:"required,min=1,max=24"`
}

// ProductView is the outbound representation of a product.
type ProductView struct {
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	UnitPrice       string `json:"unitPrice"`
	Manufacturer    string `json:"manufacturer"`
	Category        string `json:"category"`
	MaxInstallments int    `json:"maxInstallments"`
}

func toView(p Product) ProductView {
	return ProductView{
		SKU:             p.SKU,
		Name:            p.Name,
		UnitPrice:       p.UnitPrice.StringFixed(2),
		Manufacturer:    p.Manufacturer,
		Category:        string(p.Category),
		MaxInstallments: p.MaxInstallments,
	}
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": Categories()})
}

// Products handles GET /api/v1/products with an optional category filter.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		rows, err := h.Service.ListByCategory(Category(category))
		if err != nil {
			h.writeError(w, err)
			return
		}
		common.JSON(w, http.StatusOK, map[string]any{"data": views(rows)})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views(h.Service.List())})
}

// ProductDetail handles GET /api/v1/products/{sku}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(chi.URLParam(r, "sku"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toView(p)})
}

// Create handles POST /api/v1/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
		return
	}
	price, err := decimal.NewFromString(payload.UnitPrice)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "unitPrice must be a decimal string", nil)
		return
	}
	p, err := NewProduct(payload.SKU, payload.Name, price, payload.Manufacturer, Category(payload.Category), payload.MaxInstallments)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Service.Add(p); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toView(p)})
}

// InstallmentQuote handles GET /api/v1/products/{sku}/installments?n=6.
func (h *Handler) InstallmentQuote(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "n must be an integer", nil)
		return
	}
	p, err := h.Service.Get(chi.URLParam(r, "sku"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	value, err := p.InstallmentValue(n)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"sku":              p.SKU,
		"installments":     n,
		"installmentValue": value.StringFixed(2),
	}})
}

// UpdatePrice handles PATCH /api/v1/products/{sku}/price.
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UnitPrice string `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid JSON body", nil)
		return
	}
	price, err := decimal.NewFromString(payload.UnitPrice)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "unitPrice must be a decimal string", nil)
		return
	}
	sku := chi.URLParam(r, "sku")
	if err := h.Service.UpdatePrice(sku, price); err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.Service.Get(sku)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toView(p)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, err.Error(), nil)
	case errors.Is(err, ErrDuplicateSKU):
		common.JSONError(w, http.StatusConflict, common.CodeConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidProduct):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unexpected error", nil)
	}
}

func views(rows []Product) []ProductView {
	out := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		out = append(out, toView(p))
	}
	return out
}
