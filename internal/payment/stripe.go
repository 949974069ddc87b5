package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
)

// DefaultConfirmTimeout bounds a Stripe round trip when the HTTP client has
// no timeout of its own. Callers run Confirm detached from the shopper.
const DefaultConfirmTimeout = 80 * time.Second

type StripeConfig struct {
	SecretKey string
	// APIURL overrides the Stripe endpoint, for tests and proxies.
	APIURL     string
	HTTPClient *http.Client
}

type StripeGateway struct {
	intents paymentintent.Client
	methods paymentmethod.Client
}

// NewStripeGateway builds a gateway with network retries disabled: a
// confirmation is never resent behind the caller's back.
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		bounded := *hc
		bounded.Timeout = DefaultConfirmTimeout
		hc = &bounded
	}

	bc := &stripe.BackendConfig{
		HTTPClient:        hc,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if cfg.APIURL != "" {
		bc.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)

	return &StripeGateway{
		intents: paymentintent.Client{B: backend, Key: cfg.SecretKey},
		methods: paymentmethod.Client{B: backend, Key: cfg.SecretKey},
	}
}

func (g *StripeGateway) Confirm(ctx context.Context, req ConfirmRequest) (Authorization, error) {
	intentID, err := IntentIDFromSecret(req.ClientSecret)
	if err != nil {
		return Authorization{}, err
	}
	if req.Method.Token == "" {
		return Authorization{}, &GatewayError{Code: "payment_method_missing", Message: "Enter your card details to continue."}
	}

	g.attachBilling(ctx, req.Method.Token, req.Billing)

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(req.Method.Token),
	}
	params.Context = ctx
	if req.Billing.Email != "" {
		params.ReceiptEmail = stripe.String(req.Billing.Email)
	}

	pi, err := g.intents.Confirm(intentID, params)
	if err != nil {
		return Authorization{}, mapStripeError(err)
	}

	auth := Authorization{ID: pi.ID, Status: string(pi.Status)}
	if auth.ID == "" {
		auth.ID = intentID
	}
	if !auth.Succeeded() && pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		return auth, &GatewayError{Code: string(pi.LastPaymentError.Code), Message: pi.LastPaymentError.Msg}
	}
	return auth, nil
}

// attachBilling is best effort: billing details only decorate the charge.
func (g *StripeGateway) attachBilling(ctx context.Context, token string, b Billing) {
	if strings.HasPrefix(token, "pm_card_") {
		return
	}
	params := &stripe.PaymentMethodParams{
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name:  stripe.String(b.Name),
			Email: stripe.String(b.Email),
		},
	}
	params.Context = ctx
	if _, err := g.methods.Update(token, params); err != nil {
		logger.WithCtx(ctx).Warn("attach billing details failed", "error", err)
	}
}

// IntentIDFromSecret extracts "pi_123" from "pi_123_secret_abc".
func IntentIDFromSecret(secret string) (string, error) {
	id, _, ok := strings.Cut(secret, "_secret_")
	if !ok || id == "" {
		return "", ErrInvalidClientSecret
	}
	return id, nil
}

func mapStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = "Your payment could not be completed."
		}
		return &GatewayError{Code: string(se.Code), Message: msg}
	}
	return fmt.Errorf("confirm payment: %w", err)
}
