package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shopper = domain.User{ID: 42, Name: "Asha", Email: "asha@example.com"}

type fixture struct {
	shop     *MockShop
	gateway  *MockGateway
	alerter  *MockAlerter
	cartView *MockReloader
	orchestr *Orchestrator
	done     []Result
}

func newFixture() *fixture {
	f := &fixture{
		shop:     &MockShop{},
		gateway:  &MockGateway{Auth: payment.Authorization{ID: "pi_test", Status: payment.StatusSucceeded}},
		alerter:  &MockAlerter{},
		cartView: &MockReloader{},
	}
	f.orchestr = NewOrchestrator(Config{
		Payment:    NewPaymentHandler(f.shop, f.gateway),
		Orders:     NewOrderHandler(f.shop, time.Second),
		Cart:       NewCartHandler(f.shop, time.Second),
		CartView:   f.cartView,
		OrdersView: &MockReloader{},
		Alerter:    f.alerter,
		Currency:   "INR",
		OnComplete: func(_ context.Context, r Result) { f.done = append(f.done, r) },
	})
	return f
}

func line(pid int64, price string, qty int) domain.CartLineItem {
	p := decimal.RequireFromString(price)
	return domain.CartLineItem{
		ProductID: pid,
		Name:      "item",
		UnitPrice: p,
		Quantity:  qty,
		Subtotal:  p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func confirmed(t *testing.T, f *fixture, items ...domain.CartLineItem) *Checkout {
	t.Helper()
	c, err := f.orchestr.Begin(items, shopper)
	require.NoError(t, err)
	_, err = c.ConfirmAmount(context.Background())
	require.NoError(t, err)
	return c
}

func TestBegin_RequiresUser(t *testing.T) {
	f := newFixture()
	_, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "10", 1)}, domain.User{})
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestBegin_RequiresItems(t *testing.T) {
	f := newFixture()
	_, err := f.orchestr.Begin(nil, shopper)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBegin_FreezesItems(t *testing.T) {
	f := newFixture()
	items := []domain.CartLineItem{line(1, "10", 1)}
	c, err := f.orchestr.Begin(items, shopper)
	require.NoError(t, err)

	items[0].Quantity = 99
	assert.Equal(t, 1, c.Items()[0].Quantity)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, domain.CheckoutStatusAmountConfirmation, c.State())
}

func TestConfirmAmount_ZeroTotalStaysInPlace(t *testing.T) {
	f := newFixture()
	c, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "0", 2)}, shopper)
	require.NoError(t, err)

	_, err = c.ConfirmAmount(context.Background())
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureValidation, fail.Kind)
	assert.Equal(t, "Amount must be greater than 0", fail.Message)
	assert.Equal(t, domain.CheckoutStatusAmountConfirmation, c.State())
	assert.Empty(t, f.shop.IntentAmounts)
}

func TestConfirmAmount_TotalsFrozenItems(t *testing.T) {
	f := newFixture()
	c := confirmed(t, f, line(1, "12.50", 2), line(2, "3", 1))

	assert.Equal(t, "28", c.Amount().String())
	assert.Equal(t, domain.CheckoutStatusPaymentCapture, c.State())
}

func TestPay_BeforeAmountConfirmedIsIllegal(t *testing.T) {
	f := newFixture()
	c, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "10", 1)}, shopper)
	require.NoError(t, err)

	_, err = c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Zero(t, f.gateway.calls())
}

func TestPay_Success(t *testing.T) {
	f := newFixture()
	f.shop.rows = []domain.CartRow{{ID: 9, UserID: shopper.ID, ProductID: 1, Quantity: 2}}
	c := confirmed(t, f, line(1, "12.50", 2))

	res, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	require.NoError(t, err)

	assert.Equal(t, domain.CheckoutStatusComplete, c.State())
	assert.Equal(t, "pi_test", res.PaymentRef)
	assert.Equal(t, []int64{2500}, f.shop.IntentAmounts)
	require.Len(t, f.shop.Drafts, 1)
	assert.Equal(t, "pi_test", f.shop.Drafts[0].PaymentIntentID)
	assert.Equal(t, shopper.ID, f.shop.Drafts[0].UserID)
	assert.JSONEq(t, `[{"productId":1,"quantity":2,"price":12.5}]`, f.shop.Drafts[0].ItemsJSON)
	assert.Equal(t, []int64{1}, f.shop.removedIDs())
	assert.Empty(t, res.LeftoverProductIDs)
	assert.Equal(t, 1, f.cartView.count)
	require.Len(t, f.done, 1)
	assert.Equal(t, res.CheckoutID, f.done[0].CheckoutID)

	got, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, res.Order.ID, got.Order.ID)
}

func TestPay_BillingFallsBackForAnonymousProfile(t *testing.T) {
	f := newFixture()
	c, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "5", 1)}, domain.User{ID: 7})
	require.NoError(t, err)
	_, err = c.ConfirmAmount(context.Background())
	require.NoError(t, err)

	_, err = c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	require.NoError(t, err)

	require.Len(t, f.gateway.Requests, 1)
	req := f.gateway.Requests[0]
	assert.Equal(t, "Guest", req.Billing.Name)
	assert.Equal(t, "test@example.com", req.Billing.Email)
	assert.Equal(t, "pi_test_secret_abc", req.ClientSecret)
}

func TestPay_GatewayRejection(t *testing.T) {
	f := newFixture()
	f.gateway.Err = &payment.GatewayError{Code: "card_declined", Message: "Your card was declined."}
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_chargeDeclined"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailurePayment, fail.Kind)
	assert.Equal(t, "Your card was declined.", fail.Message)
	assert.Equal(t, domain.CheckoutStatusFailed, c.State())
	assert.Empty(t, f.shop.Drafts)
	assert.Empty(t, f.shop.removedIDs())

	_, err = c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, 1, f.gateway.calls())
}

func TestPay_NonSucceededStatus(t *testing.T) {
	f := newFixture()
	f.gateway.Auth = payment.Authorization{ID: "pi_test", Status: "requires_action"}
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "Payment status: requires_action", fail.Message)
	assert.Equal(t, domain.CheckoutStatusFailed, c.State())
	assert.Empty(t, f.shop.Drafts)
}

func TestPay_UnexpectedGatewayError(t *testing.T) {
	f := newFixture()
	f.gateway.Err = errors.New("connection reset")
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "Payment failed.", fail.Message)
}

func TestPay_IntentCreationFails(t *testing.T) {
	f := newFixture()
	f.shop.IntentErr = errBackend
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailurePayment, fail.Kind)
	assert.ErrorIs(t, err, errBackend)
	assert.Zero(t, f.gateway.calls())
	assert.Equal(t, domain.CheckoutStatusFailed, c.State())
}

func TestPay_OrderRecordingFailsAfterPayment(t *testing.T) {
	f := newFixture()
	f.shop.CreateErr = errBackend
	f.shop.rows = []domain.CartRow{{ID: 9, UserID: shopper.ID, ProductID: 1, Quantity: 1}}
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailurePostPayment, fail.Kind)
	assert.Equal(t, "pi_test", fail.PaymentRef)
	assert.Equal(t,
		"Payment pi_test succeeded but your order could not be recorded. Please contact support with payment reference pi_test.",
		fail.Message)
	assert.Equal(t, domain.CheckoutStatusFailedPostPayment, c.State())

	// Cart is kept, nothing is charged twice.
	assert.Empty(t, f.shop.removedIDs())
	assert.Equal(t, 1, f.gateway.calls())

	require.Len(t, f.alerter.Alerts, 1)
	alert := f.alerter.Alerts[0]
	assert.Equal(t, "pi_test", alert.PaymentRef)
	assert.Equal(t, c.ID(), alert.CheckoutID)
	assert.Equal(t, "INR", alert.Currency)
	assert.True(t, alert.Total.Equal(decimal.NewFromInt(10)))
	assert.Contains(t, alert.Cause, "backend unavailable")

	assert.ErrorIs(t, c.Cancel(), ErrNotCancellable)
	assert.Equal(t, fail, c.Snapshot().Failure)
}

func TestPay_AlertFailureDoesNotMaskOutcome(t *testing.T) {
	f := newFixture()
	f.shop.CreateErr = errBackend
	f.alerter.Err = errors.New("kafka down")
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	fail, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailurePostPayment, fail.Kind)
}

func TestPay_ShopperLeavingAfterPaymentStillRecordsOrder(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.gateway.Hook = cancel
	c := confirmed(t, f, line(1, "10", 1))

	_, err := c.Pay(ctx, payment.Method{Token: "pm_card_visa"})
	require.NoError(t, err)
	assert.Len(t, f.shop.Drafts, 1)
	assert.Equal(t, domain.CheckoutStatusComplete, c.State())
}

func TestPay_ShopperLeavingDuringPaymentStillRecordsOrder(t *testing.T) {
	f := newFixture()
	c := confirmed(t, f, line(1, "10", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Pay(ctx, payment.Method{Token: "pm_card_visa"})

	require.NoError(t, err)
	require.Equal(t, 1, f.gateway.calls())
	assert.Len(t, f.shop.Drafts, 1)
	assert.Equal(t, domain.CheckoutStatusComplete, c.State())
}

func TestPay_LeftoverRowsAreReported(t *testing.T) {
	f := newFixture()
	f.shop.rows = []domain.CartRow{
		{ID: 1, UserID: shopper.ID, ProductID: 1, Quantity: 1},
		{ID: 2, UserID: shopper.ID, ProductID: 2, Quantity: 1},
	}
	f.shop.RemoveErr = map[int64]error{2: errBackend}
	c := confirmed(t, f, line(1, "10", 1), line(2, "5", 1))

	res, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, res.LeftoverProductIDs)
	assert.Equal(t, []int64{1}, f.shop.removedIDs())
	assert.Equal(t, domain.CheckoutStatusComplete, c.State())
}

func TestPay_SecondCallWhileRunningIsRejected(t *testing.T) {
	f := newFixture()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.gateway.Hook = func() {
		close(entered)
		<-release
	}
	c := confirmed(t, f, line(1, "10", 1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
		assert.NoError(t, err)
	}()

	<-entered
	_, err := c.Pay(context.Background(), payment.Method{Token: "pm_card_visa"})
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.ErrorIs(t, c.Cancel(), ErrCheckoutInProgress)

	close(release)
	wg.Wait()
	assert.Equal(t, 1, f.gateway.calls())
	assert.Len(t, f.shop.Drafts, 1)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	c, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "10", 1)}, shopper)
	require.NoError(t, err)
	require.NoError(t, c.Cancel())
	assert.Equal(t, domain.CheckoutStatusAbandoned, c.State())

	_, err = c.ConfirmAmount(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)

	c = confirmed(t, f, line(1, "10", 1))
	require.NoError(t, c.Cancel())
	assert.Equal(t, domain.CheckoutStatusAbandoned, c.State())
	assert.Zero(t, f.gateway.calls())
}

func TestFail_RejectedTransitionStillRecordsFailure(t *testing.T) {
	f := newFixture()
	c, err := f.orchestr.Begin([]domain.CartLineItem{line(1, "10", 1)}, shopper)
	require.NoError(t, err)

	got := c.fail(context.Background(), domain.CheckoutStatusFailedPostPayment, &Failure{Kind: FailurePostPayment, Message: "no order"})

	assert.ErrorIs(t, got, ErrIllegalTransition)
	assert.Equal(t, domain.CheckoutStatusAmountConfirmation, c.State())
	snap := c.Snapshot()
	require.NotNil(t, snap.Failure)
	assert.Equal(t, "no order", snap.Failure.Message)
	assert.ErrorIs(t, snap.Failure, ErrIllegalTransition)
}

// Product 7 at 250, quantity 3: the shopper pays 750, the order stores 750
// and the cart ends up empty.
func TestCheckout_EndToEnd(t *testing.T) {
	f := newFixture()
	products := catalog.NewStatic(domain.Product{ID: 7, Name: "Desk Lamp", Price: decimal.NewFromInt(250), Category: "home"})
	users := fixedUser{user: shopper}
	cartSvc := cart.NewService(f.shop, products, users, nopNotifier{}, time.Second)
	ordersSvc := orders.NewService(f.shop, products, users, nopNotifier{}, time.Second)

	orch := NewOrchestrator(Config{
		Payment:    NewPaymentHandler(f.shop, f.gateway),
		Orders:     NewOrderHandler(f.shop, time.Second),
		Cart:       NewCartHandler(f.shop, time.Second),
		CartView:   cartSvc,
		OrdersView: ordersSvc,
		Alerter:    f.alerter,
		Currency:   "INR",
	})

	ctx := context.Background()
	require.NoError(t, cartSvc.AddItem(ctx, 7, 1))
	require.NoError(t, cartSvc.SetQuantity(ctx, 7, 3))

	items := cartSvc.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "750", items[0].Subtotal.String())

	c, err := orch.Begin(items, shopper)
	require.NoError(t, err)
	amount, err := c.ConfirmAmount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "750", amount.String())

	res, err := c.Pay(ctx, payment.Method{Token: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, []int64{75000}, f.shop.IntentAmounts)
	assert.True(t, f.shop.Drafts[0].Total.Equal(decimal.NewFromInt(750)))
	assert.JSONEq(t, `[{"productId":7,"quantity":3,"price":250}]`, f.shop.Drafts[0].ItemsJSON)

	assert.Zero(t, cartSvc.Count())
	list := ordersSvc.Orders()
	require.Len(t, list, 1)
	assert.Equal(t, res.Order.ID, list[0].ID)
	assert.True(t, list[0].Total.Equal(decimal.NewFromInt(750)))
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Desk Lamp", list[0].Items[0].Name)
}

func TestOrderItemsJSON_ReadsBackInMajorUnits(t *testing.T) {
	itemsJSON, err := orderItemsJSON([]domain.CartLineItem{line(9, "1299", 2)})
	require.NoError(t, err)

	d := orders.Normalize(domain.Order{ItemsJSON: itemsJSON, Total: decimal.NewFromInt(2598)}, catalog.NewStatic())

	require.Len(t, d.Items, 1)
	assert.True(t, decimal.NewFromInt(1299).Equal(d.Items[0].UnitPrice), "unit price %s", d.Items[0].UnitPrice)
	assert.True(t, decimal.NewFromInt(2598).Equal(d.Items[0].Subtotal), "subtotal %s", d.Items[0].Subtotal)
	assert.True(t, decimal.NewFromInt(2598).Equal(d.ComputedTotal))
}
