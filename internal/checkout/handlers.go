package checkout

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

type PaymentIntents interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64) (string, error)
}

type OrderRecorder interface {
	Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
}

type CartRemover interface {
	Remove(ctx context.Context, userID, productID int64) error
}

type Reloader interface {
	Reload(ctx context.Context) error
}

type Alerter interface {
	PaymentUnrecorded(ctx context.Context, p domain.UnrecordedPayment) error
}

// PaymentHandler has no timeout: the gateway owns its own.
type PaymentHandler struct {
	intents PaymentIntents
	gateway payment.Gateway
}

func NewPaymentHandler(intents PaymentIntents, gateway payment.Gateway) *PaymentHandler {
	return &PaymentHandler{
		intents: intents,
		gateway: gateway,
	}
}

type OrderHandler struct {
	orders  OrderRecorder
	timeout time.Duration
}

func NewOrderHandler(orders OrderRecorder, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type CartHandler struct {
	cart    CartRemover
	timeout time.Duration
}

func NewCartHandler(cart CartRemover, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
