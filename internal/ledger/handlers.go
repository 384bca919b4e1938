package ledger

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/backend-caixa/internal/catalog"
	"github.com/noah-isme/backend-caixa/internal/common"
)

// Handler exposes sales report endpoints.
type Handler struct {
	Service *Service
}

// SummaryView is the outbound representation of the ledger totals.
type SummaryView struct {
	OrdersRecorded int    `json:"ordersRecorded"`
	TotalRevenue   string `json:"totalRevenue"`
	TotalTax       string `json:"totalTax"`
	TotalDiscount  string `json:"totalDiscount"`
}

// Summary handles GET /api/v1/reports/summary.
func (h *Handler) Summary(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": SummaryView{
		OrdersRecorded: h.Service.OrdersRecorded(),
		TotalRevenue:   h.Service.TotalRevenue().StringFixed(2),
		TotalTax:       h.Service.TotalTax().StringFixed(2),
		TotalDiscount:  h.Service.TotalDiscount().StringFixed(2),
	}})
}

// TopProducts handles GET /api/v1/reports/top-products?n=5.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "n must be a positive integer", nil)
			return
		}
		n = parsed
	}
	rows := h.Service.TopProducts(n)
	if rows == nil {
		rows = []ProductQty{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// RevenueByCategory handles GET /api/v1/reports/revenue-by-category.
func (h *Handler) RevenueByCategory(w http.ResponseWriter, _ *http.Request) {
	revenue := h.Service.RevenueByCategory()
	out := make(map[string]string, len(revenue))
	for _, category := range catalog.Categories() {
		if amount, ok := revenue[category]; ok {
			out[string(category)] = amount.StringFixed(2)
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}
