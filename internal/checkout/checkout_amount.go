package checkout

import (
	"context"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/shopspring/decimal"
)

// ConfirmAmount totals the frozen items. A non-positive total keeps the
// checkout in AMOUNT_CONFIRMATION with a validation failure.
func (c *Checkout) ConfirmAmount(ctx context.Context) (decimal.Decimal, error) {
	if err := c.enter(domain.CheckoutStatusAmountConfirmation); err != nil {
		return decimal.Zero, err
	}
	defer c.leave()

	total := cart.Total(c.items)
	if !total.IsPositive() {
		return decimal.Zero, c.fail(ctx, "", &Failure{
			Kind:    FailureValidation,
			Message: "Amount must be greater than 0",
		})
	}

	if err := c.transition(ctx, domain.CheckoutStatusPaymentCapture); err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	c.amount = total
	c.failure = nil
	c.mu.Unlock()
	return total, nil
}
