package checkout

import (
	"context"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

// clearCart deletes every charged line by product id. A leftover row is
// logged and reported, never fatal. Cart and orders are reloaded whatever
// the deletes did.
func (c *Checkout) clearCart(ctx context.Context, auth payment.Authorization, order domain.Order) Result {
	ch := c.o.cfg.Cart
	res := Result{
		CheckoutID: c.id,
		PaymentRef: auth.ID,
		Amount:     c.Amount(),
		Order:      order,
	}

	for _, it := range c.items {
		dctx, cancel := withTimeout(ctx, ch.timeout)
		err := ch.cart.Remove(dctx, c.user.ID, it.ProductID)
		cancel()
		if err != nil {
			logger.WithCtx(ctx).Warn("cart row left after checkout", "checkout_id", c.id, "product_id", it.ProductID, "error", err)
			res.LeftoverProductIDs = append(res.LeftoverProductIDs, it.ProductID)
		}
	}

	if v := c.o.cfg.CartView; v != nil {
		_ = v.Reload(ctx)
	}
	if v := c.o.cfg.OrdersView; v != nil {
		_ = v.Reload(ctx)
	}
	return res
}

func (c *Checkout) complete(ctx context.Context, res Result) {
	if err := c.transition(ctx, domain.CheckoutStatusComplete); err != nil {
		return
	}
	c.mu.Lock()
	c.result = &res
	c.failure = nil
	c.mu.Unlock()

	metrics.CheckoutOutcomes.WithLabelValues("complete").Inc()
	logger.WithCtx(ctx).Info("checkout complete", "checkout_id", c.id, "payment_ref", res.PaymentRef, "order_id", res.Order.ID)

	if hook := c.o.cfg.OnComplete; hook != nil {
		hook(ctx, res)
	}
}
