// Package storefront is the application context of one shopper: who is
// signed in, which view is showing, pending notices, and the cart,
// wishlist, orders and checkout state built on top of the backend.
package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/wishlist"
	"golang.org/x/sync/errgroup"
)

const maxNotices = 50

type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Signup(ctx context.Context, req api.SignupRequest) (domain.User, error)
}

// Deps are the collaborators shared by every App. Catalog is shared too:
// one index per process, reloaded at each session start.
type Deps struct {
	Catalog  *catalog.Index
	Auth     Authenticator
	Cart     cart.Backend
	Wishlist wishlist.Backend
	Orders   interface {
		orders.Backend
		checkout.OrderRecorder
	}
	Intents  checkout.PaymentIntents
	Gateway  payment.Gateway
	Alerter  checkout.Alerter
	Currency string
	// Timeout bounds every reconciler fetch and mutation.
	Timeout time.Duration
}

type App struct {
	Cart     *cart.Service
	Wishlist *wishlist.Service
	Orders   *orders.Service

	catalog  *catalog.Index
	auth     Authenticator
	checkout *checkout.Orchestrator

	mu       sync.RWMutex
	session  domain.Session
	signedIn bool
	view     View
	notices  []domain.Notice
	active   *checkout.Checkout
}

func New(deps Deps) *App {
	a := &App{
		catalog: deps.Catalog,
		auth:    deps.Auth,
		view:    ViewHome,
	}
	a.Cart = cart.NewService(deps.Cart, deps.Catalog, a, a, deps.Timeout)
	a.Wishlist = wishlist.NewService(deps.Wishlist, deps.Cart, a.Cart, deps.Catalog, a, a, deps.Timeout)
	a.Orders = orders.NewService(deps.Orders, deps.Catalog, a, a, deps.Timeout)
	a.checkout = checkout.NewOrchestrator(checkout.Config{
		Payment:    checkout.NewPaymentHandler(deps.Intents, deps.Gateway),
		Orders:     checkout.NewOrderHandler(deps.Orders, deps.Timeout),
		Cart:       checkout.NewCartHandler(deps.Cart, deps.Timeout),
		CartView:   a.Cart,
		OrdersView: a.Orders,
		Alerter:    deps.Alerter,
		Currency:   deps.Currency,
		OnComplete: a.checkoutComplete,
	})
	return a
}

// CurrentUser reports the signed-in profile.
func (a *App) CurrentUser() (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.User, a.signedIn
}

func (a *App) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Token
}

func (a *App) Session() (domain.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session, a.signedIn
}

// Context attaches the session token so backend calls made with the
// returned context are authenticated.
func (a *App) Context(ctx context.Context) context.Context {
	if tok := a.Token(); tok != "" {
		return api.WithToken(ctx, tok)
	}
	return ctx
}

func (a *App) Catalog() *catalog.Index { return a.catalog }

// Login exchanges credentials for a session and starts it. Only the
// credential exchange can fail it; a degraded start shows up as notices.
func (a *App) Login(ctx context.Context, email, password string) (domain.Session, error) {
	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err := a.SignIn(ctx, s); err != nil {
		logger.WithCtx(ctx).Warn("session started degraded", "user_id", s.User.ID, "error", err)
	}
	return s, nil
}

// Signup creates the account. The shopper signs in separately afterwards.
func (a *App) Signup(ctx context.Context, req api.SignupRequest) (domain.User, error) {
	u, err := a.auth.Signup(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	a.Navigate(ViewLogin)
	a.Notify(domain.Notice{Level: domain.NoticeInfo, Component: "auth", Message: "Account created. Please login to continue."})
	return u, nil
}

// SignIn installs s and reloads everything derived from it. Backend
// failures during the reload degrade and are reported as notices; the
// returned error is informational.
func (a *App) SignIn(ctx context.Context, s domain.Session) error {
	a.mu.Lock()
	a.session = s
	a.signedIn = s.User.ID != 0
	a.view = ViewHome
	a.active = nil
	a.mu.Unlock()

	logger.WithCtx(ctx).Info("shopper signed in", "user_id", s.User.ID)
	return a.StartSession(ctx)
}

// SignOut forgets the session and everything loaded for it. The catalog
// stays since it is not per shopper.
func (a *App) SignOut() {
	a.mu.Lock()
	if a.active != nil {
		_ = a.active.Cancel()
	}
	a.session = domain.Session{}
	a.signedIn = false
	a.view = ViewLogin
	a.active = nil
	a.notices = nil
	a.mu.Unlock()

	a.Cart.Clear()
	a.Wishlist.Clear()
	a.Orders.Clear()
}

// StartSession loads catalog, cart, wishlist and orders concurrently. Each
// branch degrades on its own; the first error is returned once all are done.
func (a *App) StartSession(ctx context.Context) error {
	ctx = a.Context(ctx)

	var g errgroup.Group
	g.Go(func() error {
		if err := a.catalog.Load(ctx); err != nil {
			a.Notify(domain.Notice{Level: domain.NoticeWarn, Component: "catalog", Message: "Could not load products. Some items may show without details."})
			return err
		}
		return nil
	})
	g.Go(func() error { return a.Cart.Reload(ctx) })
	g.Go(func() error { return a.Wishlist.Reload(ctx) })
	g.Go(func() error { return a.Orders.Reload(ctx) })
	return g.Wait()
}

// Navigate switches view. Views that need a shopper fall back to login
// when nobody is signed in. The view actually shown is returned.
func (a *App) Navigate(v View) (View, error) {
	if !v.valid() {
		return a.View(), ErrUnknownView
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if v.signedInOnly() && !a.signedIn {
		a.view = ViewLogin
		return a.view, ErrAuthRequired
	}
	a.view = v
	return v, nil
}

func (a *App) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

// Notify queues a notice for the shopper. Oldest notices are dropped past
// maxNotices.
func (a *App) Notify(n domain.Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notices = append(a.notices, n)
	if over := len(a.notices) - maxNotices; over > 0 {
		a.notices = append([]domain.Notice(nil), a.notices[over:]...)
	}
}

func (a *App) Notices() []domain.Notice {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]domain.Notice(nil), a.notices...)
}

func (a *App) DrainNotices() []domain.Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notices
	a.notices = nil
	return out
}

// BeginCheckout starts a checkout over the current cart. An unfinished
// checkout that has not charged anything yet is abandoned in favour of the
// new one.
func (a *App) BeginCheckout() (*checkout.Checkout, error) {
	user, ok := a.CurrentUser()
	if !ok {
		a.Navigate(ViewLogin)
		return nil, ErrAuthRequired
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if prev := a.active; prev != nil && !prev.State().IsTerminal() {
		if err := prev.Cancel(); err != nil {
			if errors.Is(err, checkout.ErrNotCancellable) {
				return nil, checkout.ErrCheckoutInProgress
			}
			return nil, err
		}
	}

	c, err := a.checkout.Begin(a.Cart.Items(), user)
	if err != nil {
		return nil, err
	}
	a.active = c
	a.view = ViewCheckout
	return c, nil
}

func (a *App) ActiveCheckout() (*checkout.Checkout, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active, a.active != nil
}

// CancelCheckout abandons the active checkout and returns to the cart.
func (a *App) CancelCheckout() error {
	c, ok := a.ActiveCheckout()
	if !ok {
		return checkout.ErrNotCancellable
	}
	if err := c.Cancel(); err != nil {
		return err
	}
	a.Navigate(ViewCart)
	return nil
}

func (a *App) checkoutComplete(ctx context.Context, r checkout.Result) {
	a.Navigate(ViewOrders)
	a.Notify(domain.Notice{Level: domain.NoticeInfo, Component: "checkout", Message: "Payment successful! Your order has been placed."})
	if len(r.LeftoverProductIDs) > 0 {
		a.Notify(domain.Notice{Level: domain.NoticeWarn, Component: "checkout", Message: "Some items could not be removed from your cart. Please remove them manually."})
	}
}
