package checkout

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/price"
)

const (
	fallbackBillingName  = "Guest"
	fallbackBillingEmail = "test@example.com"
)

func (c *Checkout) capturePayment(ctx context.Context, method payment.Method) (payment.Authorization, error) {
	amount := c.Amount()
	ph := c.o.cfg.Payment

	intentCtx := api.WithIdempotencyKey(ctx, c.id+":intent")
	secret, err := ph.intents.CreatePaymentIntent(intentCtx, price.ToMinorUnits(amount))
	if err != nil {
		return payment.Authorization{}, c.paymentFailed(ctx, "Could not start the payment. Please try again.", err)
	}

	// The card may be charged once Confirm is sent, so the shopper leaving
	// must not cut it short. The gateway bounds its own round trip.
	auth, err := ph.gateway.Confirm(context.WithoutCancel(ctx), payment.ConfirmRequest{
		ClientSecret: secret,
		Method:       method,
		Billing:      billingFor(c.user),
	})
	if err != nil {
		var ge *payment.GatewayError
		if errors.As(err, &ge) {
			return payment.Authorization{}, c.paymentFailed(ctx, ge.Message, err)
		}
		return payment.Authorization{}, c.paymentFailed(ctx, "Payment failed.", err)
	}
	if !auth.Succeeded() {
		status := auth.Status
		if status == "" {
			status = "unknown"
		}
		return payment.Authorization{}, c.paymentFailed(ctx, "Payment status: "+status, nil)
	}

	logger.WithCtx(ctx).Info("payment authorized", "checkout_id", c.id, "payment_ref", auth.ID, "amount", amount.StringFixed(2))
	if err := c.transition(ctx, domain.CheckoutStatusOrderRecording); err != nil {
		return payment.Authorization{}, err
	}
	return auth, nil
}

func (c *Checkout) paymentFailed(ctx context.Context, msg string, cause error) error {
	logger.WithCtx(ctx).Warn("payment failed", "checkout_id", c.id, "message", msg, "error", cause)
	metrics.CheckoutOutcomes.WithLabelValues("payment_failed").Inc()
	return c.fail(ctx, domain.CheckoutStatusFailed, &Failure{Kind: FailurePayment, Message: msg, Err: cause})
}

func billingFor(u domain.User) payment.Billing {
	b := payment.Billing{Name: u.Name, Email: u.Email}
	if b.Name == "" {
		b.Name = fallbackBillingName
	}
	if b.Email == "" {
		b.Email = fallbackBillingEmail
	}
	return b
}
