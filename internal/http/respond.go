package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/fjod/go_cart/storefront/internal/wishlist"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps domain and upstream errors to HTTP answers.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if f, ok := checkout.AsFailure(err); ok {
		handleFailure(w, f)
		return
	}

	var se *api.StatusError
	switch {
	case errors.Is(err, cart.ErrAuthRequired),
		errors.Is(err, wishlist.ErrAuthRequired),
		errors.Is(err, storefront.ErrAuthRequired),
		errors.Is(err, checkout.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "unauthorized", "Please login to continue.")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "Your cart is empty.")
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", "A checkout step is already running.")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "This checkout cannot take that step now.")
	case errors.Is(err, checkout.ErrNotCancellable):
		respondError(w, http.StatusConflict, "not_cancellable", "This checkout can no longer be cancelled.")
	case errors.Is(err, storefront.ErrUnknownView):
		respondError(w, http.StatusBadRequest, "unknown_view", err.Error())
	case errors.Is(err, api.ErrBreakerOpen):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "The shop is temporarily unavailable.")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "The shop took too long to answer.")
	case errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500:
		respondError(w, se.StatusCode, "upstream_rejected", se.Body)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadGateway, "upstream_error", "Something went wrong. Please try again.")
	}
}

func handleFailure(w http.ResponseWriter, f *checkout.Failure) {
	switch f.Kind {
	case checkout.FailureValidation:
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", f.Message)
	case checkout.FailurePayment:
		respondError(w, http.StatusPaymentRequired, "payment_failed", f.Message)
	default:
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   f.Message,
			Code:    "payment_unrecorded",
			Details: f.PaymentRef,
		})
	}
}
