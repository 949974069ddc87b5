package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/shopspring/decimal"
)

type Backend interface {
	Get(ctx context.Context, userID int64) ([]domain.CartRow, error)
	Add(ctx context.Context, userID, productID int64, qty int) error
	UpdateQuantity(ctx context.Context, ref int64, qty int) error
	Remove(ctx context.Context, userID, productID int64) error
}

type UserContext interface {
	CurrentUser() (domain.User, bool)
}

type Notifier interface {
	Notify(n domain.Notice)
}

// Service holds the last rows the cart service returned. It never edits
// them locally: every mutation ends with a reload.
type Service struct {
	backend  Backend
	catalog  catalog.Lookup
	users    UserContext
	notifier Notifier
	timeout  time.Duration

	mu   sync.RWMutex
	rows []domain.CartRow
}

func NewService(backend Backend, products catalog.Lookup, users UserContext, notifier Notifier, timeout time.Duration) *Service {
	return &Service{
		backend:  backend,
		catalog:  products,
		users:    users,
		notifier: notifier,
		timeout:  timeout,
	}
}

// Reload replaces the local rows with server truth. On failure the cart
// becomes empty and a warning notice is raised; the error is returned for
// callers that care.
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
		metrics.Degraded("cart")
		logger.WithCtx(ctx).Warn("cart reload failed", "component", "cart", "user_id", user.ID, "error", err)
		s.notify("Could not load your cart. Showing it as empty for now.")
		return fmt.Errorf("reload cart: %w", err)
	}
	s.set(rows)
	return nil
}

func (s *Service) Rows() []domain.CartRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Items derives line items from the current rows and catalog on each call.
func (s *Service) Items() []domain.CartLineItem {
	return Reconcile(s.Rows(), s.catalog)
}

func (s *Service) Total() decimal.Decimal {
	return Total(s.Items())
}

// Count is the number of units across all lines.
func (s *Service) Count() int {
	n := 0
	for _, it := range s.Items() {
		n += it.Quantity
	}
	return n
}

// AddItem creates the row or increments an existing one.
func (s *Service) AddItem(ctx context.Context, productID int64, qty int) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		return ErrAuthRequired
	}
	if qty <= 0 {
		qty = 1
	}

	mctx, cancel := s.bound(ctx)
	err := s.backend.Add(mctx, user.ID, productID, qty)
	cancel()
	if err != nil {
		logger.WithCtx(ctx).Warn("cart add failed", "product_id", productID, "error", err)
		err = fmt.Errorf("add product %d to cart: %w", productID, err)
	}
	_ = s.Reload(ctx)
	return err
}

// SetQuantity deletes the row when qty <= 0 and updates it otherwise, then
// reloads whatever the outcome.
func (s *Service) SetQuantity(ctx context.Context, productID int64, qty int) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		return ErrAuthRequired
	}

	mctx, cancel := s.bound(ctx)
	var err error
	if qty <= 0 {
		err = s.backend.Remove(mctx, user.ID, productID)
	} else {
		err = s.backend.UpdateQuantity(mctx, s.rowRef(productID), qty)
	}
	cancel()
	if err != nil {
		logger.WithCtx(ctx).Warn("cart quantity change failed", "product_id", productID, "quantity", qty, "error", err)
		err = fmt.Errorf("set quantity of product %d: %w", productID, err)
	}
	_ = s.Reload(ctx)
	return err
}

func (s *Service) RemoveItem(ctx context.Context, productID int64) error {
	return s.SetQuantity(ctx, productID, 0)
}

// Clear drops local state without touching the server, on sign-out.
func (s *Service) Clear() {
	s.set(nil)
}

// rowRef is the id the update endpoint addresses: the row id when the row
// is known, the product id otherwise.
func (s *Service) rowRef(productID int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.ProductID == productID && r.ID > 0 {
			return r.ID
		}
	}
	return productID
}

func (s *Service) set(rows []domain.CartRow) {
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
	s.notifier.Notify(domain.Notice{Level: domain.NoticeWarn, Component: "cart", Message: msg, At: time.Now()})
}
