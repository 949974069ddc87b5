package wishlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
)

type Backend interface {
	Get(ctx context.Context, userID int64) ([]domain.WishlistRow, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}

// CartAdder is the cart service's create-or-increment endpoint.
type CartAdder interface {
	Add(ctx context.Context, userID, productID int64, qty int) error
}

type Reloader interface {
	Reload(ctx context.Context) error
}

type UserContext interface {
	CurrentUser() (domain.User, bool)
}

type Notifier interface {
	Notify(n domain.Notice)
}

type Service struct {
	backend  Backend
	cart     CartAdder
	cartView Reloader
	catalog  catalog.Lookup
	users    UserContext
	notifier Notifier
	timeout  time.Duration

	mu   sync.RWMutex
	rows []domain.WishlistRow
}

func NewService(backend Backend, cart CartAdder, cartView Reloader, products catalog.Lookup, users UserContext, notifier Notifier, timeout time.Duration) *Service {
	return &Service{
		backend:  backend,
		cart:     cart,
		cartView: cartView,
		catalog:  products,
		users:    users,
		notifier: notifier,
		timeout:  timeout,
	}
}

func (s *Service) Reload(ctx context.Context) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		s.set(nil)
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	rows, err := s.backend.Get(ctx, user.ID)
	if err != nil {
		s.set(nil)
		metrics.Degraded("wishlist")
		logger.WithCtx(ctx).Warn("wishlist reload failed", "component", "wishlist", "user_id", user.ID, "error", err)
		s.notify("Could not load your wishlist. Showing it as empty for now.")
		return fmt.Errorf("reload wishlist: %w", err)
	}
	s.set(rows)
	return nil
}

func (s *Service) Items() []domain.WishlistLineItem {
	s.mu.RLock()
	rows := make([]domain.WishlistRow, len(s.rows))
	copy(rows, s.rows)
	s.mu.RUnlock()
	return Reconcile(rows, s.catalog)
}

// Contains answers from the last reload, without a network call.
func (s *Service) Contains(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle asks the server whether the pair exists and removes or inserts
// accordingly, so the relation stays a set. added reports the new state.
func (s *Service) Toggle(ctx context.Context, productID int64) (added bool, err error) {
	user, ok := s.users.CurrentUser()
	if !ok {
		return false, ErrAuthRequired
	}

	mctx, cancel := s.bound(ctx)
	exists, err := s.backend.Exists(mctx, user.ID, productID)
	if err == nil {
		if exists {
			err = s.backend.Remove(mctx, user.ID, productID)
		} else {
			err = s.backend.Add(mctx, user.ID, productID)
			added = err == nil
		}
	}
	cancel()
	if err != nil {
		logger.WithCtx(ctx).Warn("wishlist toggle failed", "product_id", productID, "error", err)
		err = fmt.Errorf("toggle wishlist product %d: %w", productID, err)
	}
	_ = s.Reload(ctx)
	return added, err
}

func (s *Service) Remove(ctx context.Context, productID int64) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		return ErrAuthRequired
	}

	mctx, cancel := s.bound(ctx)
	err := s.backend.Remove(mctx, user.ID, productID)
	cancel()
	if err != nil {
		logger.WithCtx(ctx).Warn("wishlist remove failed", "product_id", productID, "error", err)
		err = fmt.Errorf("remove wishlist product %d: %w", productID, err)
	}
	_ = s.Reload(ctx)
	return err
}

// MoveToCart adds one unit to the cart and only then drops the wishlist
// row. If the add fails the row stays where it is.
func (s *Service) MoveToCart(ctx context.Context, productID int64) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		return ErrAuthRequired
	}

	mctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.cart.Add(mctx, user.ID, productID, 1); err != nil {
		logger.WithCtx(ctx).Warn("move to cart: add failed, wishlist kept", "product_id", productID, "error", err)
		return fmt.Errorf("move product %d to cart: %w", productID, err)
	}

	var err error
	if rmErr := s.backend.Remove(mctx, user.ID, productID); rmErr != nil {
		logger.WithCtx(ctx).Warn("move to cart: wishlist remove failed", "product_id", productID, "error", rmErr)
		err = fmt.Errorf("remove product %d from wishlist after adding to cart: %w", productID, rmErr)
	}

	_ = s.cartView.Reload(ctx)
	_ = s.Reload(ctx)
	return err
}

func (s *Service) Clear() {
	s.set(nil)
}

func (s *Service) set(rows []domain.WishlistRow) {
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) notify(msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(domain.Notice{Level: domain.NoticeWarn, Component: "wishlist", Message: msg, At: time.Now()})
}
