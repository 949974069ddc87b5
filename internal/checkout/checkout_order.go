package checkout

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

// recordOrder creates the order for an authorized payment. Any failure here
// leaves a paid checkout without an order: FAILED_POST_PAYMENT plus an
// alert, never a retry of the capture.
func (c *Checkout) recordOrder(ctx context.Context, auth payment.Authorization) (domain.Order, error) {
	oh := c.o.cfg.Orders
	amount := c.Amount()

	itemsJSON, err := orderItemsJSON(c.items)
	if err == nil {
		octx, cancel := withTimeout(api.WithIdempotencyKey(ctx, c.id+":order"), oh.timeout)
		var order domain.Order
		order, err = oh.orders.Create(octx, domain.OrderDraft{
			UserID:          c.user.ID,
			Total:           amount,
			ItemsJSON:       itemsJSON,
			PaymentIntentID: auth.ID,
		})
		cancel()
		if err == nil {
			logger.WithCtx(ctx).Info("order recorded", "checkout_id", c.id, "payment_ref", auth.ID, "order_id", order.ID)
			if terr := c.transition(ctx, domain.CheckoutStatusCartClearing); terr != nil {
				return domain.Order{}, terr
			}
			return order, nil
		}
	}

	logger.WithCtx(ctx).Error("order recording failed after payment", "checkout_id", c.id, "payment_ref", auth.ID, "error", err)
	metrics.CheckoutOutcomes.WithLabelValues("post_payment_failed").Inc()

	if alerter := c.o.cfg.Alerter; alerter != nil {
		alert := domain.UnrecordedPayment{
			CheckoutID: c.id,
			UserID:     c.user.ID,
			PaymentRef: auth.ID,
			Total:      amount,
			Currency:   c.o.cfg.Currency,
			ItemsJSON:  itemsJSON,
			Cause:      err.Error(),
			OccurredAt: time.Now().UTC(),
		}
		if aerr := alerter.PaymentUnrecorded(ctx, alert); aerr != nil {
			logger.WithCtx(ctx).Error("reconciliation alert failed", "checkout_id", c.id, "payment_ref", auth.ID, "error", aerr)
		}
	}

	return domain.Order{}, c.fail(ctx, domain.CheckoutStatusFailedPostPayment, &Failure{
		Kind:       FailurePostPayment,
		Message:    unrecordedMessage(auth.ID),
		PaymentRef: auth.ID,
		Err:        err,
	})
}
