package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/payload"
)

type PaymentClient struct{ c *Client }

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

var errNoClientSecret = errors.New("payment intent response without client secret")

// CreatePaymentIntent asks the backend for an authorization of amountMinor
// and returns the gateway client secret.
func (pc *PaymentClient) CreatePaymentIntent(ctx context.Context, amountMinor int64) (string, error) {
	data, err := pc.c.Do(ctx, http.MethodPost, "/payment/create-payment-intent", nil, map[string]any{"amount": amountMinor})
	if err != nil {
		return "", err
	}
	m, err := payload.DecodeObject(data)
	if err != nil {
		return "", err
	}
	secret := payload.StringField(m, "clientSecret", "client_secret")
	if secret == "" {
		return "", errNoClientSecret
	}
	return secret, nil
}
