package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
)

type Backend interface {
	List(ctx context.Context, userID int64) ([]domain.Order, error)
}

type UserContext interface {
	CurrentUser() (domain.User, bool)
}

type Notifier interface {
	Notify(n domain.Notice)
}

type Service struct {
	backend  Backend
	catalog  catalog.Lookup
	users    UserContext
	notifier Notifier
	timeout  time.Duration

	mu     sync.RWMutex
	orders []domain.Order
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

func (s *Service) Reload(ctx context.Context) error {
	user, ok := s.users.CurrentUser()
	if !ok {
		s.set(nil)
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	list, err := s.backend.List(ctx, user.ID)
	if err != nil {
		s.set(nil)
		metrics.Degraded("orders")
		logger.WithCtx(ctx).Warn("orders reload failed", "component", "orders", "user_id", user.ID, "error", err)
		if s.notifier != nil {
			s.notifier.Notify(domain.Notice{
				Level:     domain.NoticeWarn,
				Component: "orders",
				Message:   "Could not load your orders right now.",
				At:        time.Now(),
			})
		}
		return fmt.Errorf("reload orders: %w", err)
	}
	s.set(list)
	return nil
}

// Orders returns display orders, newest first. Orders without a date keep
// the server's relative order after the dated ones.
func (s *Service) Orders() []domain.DisplayOrder {
	s.mu.RLock()
	list := make([]domain.Order, len(s.orders))
	copy(list, s.orders)
	s.mu.RUnlock()

	out := make([]domain.DisplayOrder, 0, len(list))
	for _, o := range list {
		out = append(out, Normalize(o, s.catalog))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	return out
}

func (s *Service) Find(id int64) (domain.DisplayOrder, bool) {
	for _, o := range s.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return domain.DisplayOrder{}, false
}

func (s *Service) Clear() {
	s.set(nil)
}

func (s *Service) set(list []domain.Order) {
	s.mu.Lock()
	s.orders = list
	s.mu.Unlock()
}
