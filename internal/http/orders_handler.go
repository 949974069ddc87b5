package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	currency string
	timeout  time.Duration
}

func NewOrdersHandler(currency string, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		currency: currency,
		timeout:  timeout,
	}
}

type OrderResponse struct {
	domain.DisplayOrder
	TotalDisplay string `json:"total_display"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// GET /api/v1/orders
// ?refresh=true reloads from the order service first.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	app := appFrom(r.Context())
	if r.URL.Query().Get("refresh") == "true" {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		_ = app.Orders.Reload(ctx)
		cancel()
	}

	list := app.Orders.Orders()
	resp := OrdersResponse{Orders: make([]OrderResponse, 0, len(list))}
	for _, o := range list {
		resp.Orders = append(resp.Orders, h.order(o))
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}
	o, ok := appFrom(r.Context()).Orders.Find(id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, h.order(o))
}

func (h *OrdersHandler) order(o domain.DisplayOrder) OrderResponse {
	return OrderResponse{DisplayOrder: o, TotalDisplay: price.Format(o.Total, h.currency)}
}

// GET /api/v1/notices
// Notices are handed out once.
func Notices(w http.ResponseWriter, r *http.Request) {
	notices := appFrom(r.Context()).DrainNotices()
	if notices == nil {
		notices = []domain.Notice{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"notices": notices})
}
