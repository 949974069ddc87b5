// Package checkout drives the two-phase checkout: amount confirmation,
// payment capture, order recording and cart clearing. Every step is a
// named state transition checked against domain.CanTransitionTo.
package checkout

import (
	"context"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/google/uuid"
)

type Config struct {
	Payment  *PaymentHandler
	Orders   *OrderHandler
	Cart     *CartHandler
	CartView Reloader
	// OrdersView is reloaded after the cart is cleared.
	OrdersView Reloader
	Alerter    Alerter
	Currency   string
	// OnComplete runs once a checkout reaches COMPLETE.
	OnComplete func(ctx context.Context, r Result)
}

type Orchestrator struct {
	cfg Config
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{cfg: cfg}
}

// Begin freezes the line items to charge. The same items are used for the
// amount, the order payload and cart clearing, whatever happens to the
// live cart meanwhile.
func (o *Orchestrator) Begin(items []domain.CartLineItem, user domain.User) (*Checkout, error) {
	if user.ID == 0 {
		return nil, ErrAuthRequired
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	frozen := make([]domain.CartLineItem, len(items))
	copy(frozen, items)

	return &Checkout{
		id:    uuid.NewString(),
		o:     o,
		user:  user,
		items: frozen,
		state: domain.CheckoutStatusAmountConfirmation,
	}, nil
}
