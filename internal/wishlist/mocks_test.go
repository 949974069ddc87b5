package wishlist

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
)

// mockBackend stores rows as a multiset so a duplicate insert would show.
type mockBackend struct {
	mu    sync.Mutex
	rows  []domain.WishlistRow
	calls []string

	GetErr    error
	ExistsErr error
	RemoveErr error
}

func (m *mockBackend) Get(ctx context.Context, userID int64) ([]domain.WishlistRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "get")
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make([]domain.WishlistRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockBackend) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "exists")
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, r := range m.rows {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBackend) Add(ctx context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "add")
	m.rows = append(m.rows, domain.WishlistRow{ID: int64(len(m.rows) + 1), UserID: userID, ProductID: productID})
	return nil
}

func (m *mockBackend) Remove(ctx context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "remove")
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !(r.UserID == userID && r.ProductID == productID) {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockBackend) called(op string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == op {
			return true
		}
	}
	return false
}

type mockCart struct {
	AddErr  error
	added   []int64
	reloads int
}

func (m *mockCart) Add(ctx context.Context, userID, productID int64, qty int) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.added = append(m.added, productID)
	return nil
}

func (m *mockCart) Reload(ctx context.Context) error {
	m.reloads++
	return nil
}

type mockUsers struct {
	user *domain.User
}

func (m mockUsers) CurrentUser() (domain.User, bool) {
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

type mockNotifier struct {
	notices []domain.Notice
}

func (m *mockNotifier) Notify(n domain.Notice) {
	m.notices = append(m.notices, n)
}
