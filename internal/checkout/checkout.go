package checkout

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/shopspring/decimal"
)

// Result describes a checkout that got past payment.
type Result struct {
	CheckoutID string          `json:"checkout_id"`
	PaymentRef string          `json:"payment_ref"`
	Amount     decimal.Decimal `json:"amount"`
	Order      domain.Order    `json:"order"`
	// LeftoverProductIDs were charged but their cart rows could not be deleted.
	LeftoverProductIDs []int64 `json:"leftover_product_ids,omitempty"`
}

type Snapshot struct {
	ID      string                `json:"id"`
	State   domain.CheckoutStatus `json:"state"`
	Amount  decimal.Decimal       `json:"amount"`
	Items   []domain.CartLineItem `json:"items"`
	Failure *Failure              `json:"failure,omitempty"`
	Result  *Result               `json:"result,omitempty"`
}

// Checkout is one attempt. Steps never overlap: a step started while
// another runs gets ErrCheckoutInProgress.
type Checkout struct {
	id    string
	o     *Orchestrator
	user  domain.User
	items []domain.CartLineItem

	mu      sync.Mutex
	running bool
	state   domain.CheckoutStatus
	amount  decimal.Decimal
	failure *Failure
	result  *Result
}

func (c *Checkout) ID() string { return c.id }

func (c *Checkout) State() domain.CheckoutStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Amount is zero until ConfirmAmount succeeds.
func (c *Checkout) Amount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amount
}

func (c *Checkout) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

func (c *Checkout) Items() []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Checkout) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		ID:      c.id,
		State:   c.state,
		Amount:  c.amount,
		Items:   c.Items(),
		Failure: c.failure,
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	return s
}

// Cancel abandons the checkout. Allowed only before any remote side effect
// and never while a step is running.
func (c *Checkout) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrCheckoutInProgress
	}
	if !c.state.Cancellable() {
		return ErrNotCancellable
	}
	c.transitionLocked(context.Background(), domain.CheckoutStatusAbandoned)
	metrics.CheckoutOutcomes.WithLabelValues("abandoned").Inc()
	return nil
}

// Pay runs payment capture, order recording and cart clearing in order.
// It only starts from PAYMENT_CAPTURE, so a finished or failed checkout is
// never charged again.
func (c *Checkout) Pay(ctx context.Context, method payment.Method) (Result, error) {
	if err := c.enter(domain.CheckoutStatusPaymentCapture); err != nil {
		return Result{}, err
	}
	defer c.leave()

	auth, err := c.capturePayment(ctx, method)
	if err != nil {
		return Result{}, err
	}

	// Money has moved. From here on the shopper leaving must not stop us.
	ctx = context.WithoutCancel(ctx)

	order, err := c.recordOrder(ctx, auth)
	if err != nil {
		return Result{}, err
	}

	res := c.clearCart(ctx, auth, order)
	c.complete(ctx, res)
	return res, nil
}

// enter claims the checkout for a step that must start in state want.
func (c *Checkout) enter(want domain.CheckoutStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrCheckoutInProgress
	}
	if c.state != want {
		return ErrIllegalTransition
	}
	c.running = true
	return nil
}

func (c *Checkout) leave() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *Checkout) transition(ctx context.Context, to domain.CheckoutStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !domain.CanTransitionTo(c.state, to) {
		logger.WithCtx(ctx).Error("illegal checkout transition", "checkout_id", c.id, "from", c.state.String(), "to", to.String())
		return ErrIllegalTransition
	}
	c.transitionLocked(ctx, to)
	return nil
}

func (c *Checkout) transitionLocked(ctx context.Context, to domain.CheckoutStatus) {
	from := c.state
	c.state = to
	metrics.CheckoutTransitions.WithLabelValues(from.String(), to.String()).Inc()
	logger.WithCtx(ctx).Info("checkout transition", "checkout_id", c.id, "from", from.String(), "to", to.String())
}

// fail moves to a failed state and records why. Validation failures keep
// the state.
func (c *Checkout) fail(ctx context.Context, to domain.CheckoutStatus, f *Failure) *Failure {
	if to != "" {
		if err := c.transition(ctx, to); err != nil {
			f = &Failure{Kind: f.Kind, Message: f.Message, PaymentRef: f.PaymentRef, Err: err}
		}
	}
	c.mu.Lock()
	c.failure = f
	c.mu.Unlock()
	return f
}
