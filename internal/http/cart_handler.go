package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

type CartHandler struct {
	currency string
	timeout  time.Duration
}

func NewCartHandler(currency string, timeout time.Duration) *CartHandler {
	return &CartHandler{
		currency: currency,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID        int64           `json:"product_id"`
	Name             string          `json:"name"`
	Image            string          `json:"image"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitPriceDisplay string          `json:"unit_price_display"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	SubtotalDisplay  string          `json:"subtotal_display"`
}

type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	Count        int                `json:"count"`
	Total        decimal.Decimal    `json:"total"`
	TotalDisplay string             `json:"total_display"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse(appFrom(r.Context())))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	app := appFrom(r.Context())
	if err := app.Cart.AddItem(ctx, req.ProductID, req.Quantity); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.cartResponse(app))
}

// PUT /api/v1/cart/items/{product_id}
// A quantity of zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	app := appFrom(r.Context())
	if err := app.Cart.SetQuantity(ctx, productID, req.Quantity); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse(app))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	app := appFrom(r.Context())
	if err := app.Cart.RemoveItem(ctx, productID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartResponse(app))
}

func (h *CartHandler) cartResponse(app *storefront.App) CartResponse {
	items := app.Cart.Items()
	resp := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:        it.ProductID,
			Name:             it.Name,
			Image:            it.Image,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitPriceDisplay: price.Format(it.UnitPrice, h.currency),
			Subtotal:         it.Subtotal,
			SubtotalDisplay:  price.Format(it.Subtotal, h.currency),
		})
		resp.Count += it.Quantity
		resp.Total = resp.Total.Add(it.Subtotal)
	}
	resp.TotalDisplay = price.Format(resp.Total, h.currency)
	return resp
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
