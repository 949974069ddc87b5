package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/shopspring/decimal"
)

type WishlistHandler struct {
	currency string
	timeout  time.Duration
}

func NewWishlistHandler(currency string, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		currency: currency,
		timeout:  timeout,
	}
}

type WishlistItemResponse struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Category     string          `json:"category,omitempty"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
}

type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	// Added is set by toggle only.
	Added     *bool `json:"added,omitempty"`
	CartCount int   `json:"cart_count"`
}

// GET /api/v1/wishlist
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.wishlistResponse(appFrom(r.Context())))
}

// POST /api/v1/wishlist/{product_id}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	app := appFrom(r.Context())
	added, err := app.Wishlist.Toggle(ctx, productID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	resp := h.wishlistResponse(app)
	resp.Added = &added
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/wishlist/{product_id}/move-to-cart
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	app := appFrom(r.Context())
	if err := app.Wishlist.MoveToCart(ctx, productID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.wishlistResponse(app))
}

// DELETE /api/v1/wishlist/{product_id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	app := appFrom(r.Context())
	if err := app.Wishlist.Remove(ctx, productID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.wishlistResponse(app))
}

func (h *WishlistHandler) wishlistResponse(app *storefront.App) WishlistResponse {
	items := app.Wishlist.Items()
	resp := WishlistResponse{
		Items:     make([]WishlistItemResponse, 0, len(items)),
		CartCount: app.Cart.Count(),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, WishlistItemResponse{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Image:        it.Image,
			Category:     it.Category,
			Price:        it.Price,
			PriceDisplay: price.Format(it.Price, h.currency),
		})
	}
	return resp
}
