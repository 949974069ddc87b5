package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/price"
)

// CheckoutHandler applies no timeout of its own: capture and recording
// are bounded by the gateway and the order handler.
type CheckoutHandler struct {
	currency string
}

func NewCheckoutHandler(currency string) *CheckoutHandler {
	return &CheckoutHandler{currency: currency}
}

type PayRequestDTO struct {
	// PaymentMethod is the gateway token produced by the card element.
	PaymentMethod string `json:"payment_method"`
}

type CheckoutResponseDTO struct {
	checkout.Snapshot
	AmountDisplay string `json:"amount_display"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	c, err := appFrom(r.Context()).BeginCheckout()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.response(c))
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := appFrom(r.Context()).ActiveCheckout()
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}
	respondJSON(w, http.StatusOK, h.response(c))
}

// POST /api/v1/checkout/confirm-amount
func (h *CheckoutHandler) ConfirmAmount(w http.ResponseWriter, r *http.Request) {
	c, ok := appFrom(r.Context()).ActiveCheckout()
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}
	if _, err := c.ConfirmAmount(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(c))
}

// POST /api/v1/checkout/pay
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	c, ok := appFrom(r.Context()).ActiveCheckout()
	if !ok {
		respondError(w, http.StatusNotFound, "no_checkout", "no checkout in progress")
		return
	}

	var req PayRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_method", "payment_method is required")
		return
	}

	if _, err := c.Pay(r.Context(), payment.Method{Token: req.PaymentMethod}); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(c))
}

// DELETE /api/v1/checkout
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := appFrom(r.Context()).CancelCheckout(); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) response(c *checkout.Checkout) CheckoutResponseDTO {
	s := c.Snapshot()
	return CheckoutResponseDTO{
		Snapshot:      s,
		AmountDisplay: price.Format(s.Amount, h.currency),
	}
}
