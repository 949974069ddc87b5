package cart

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
)

type call struct {
	Op        string
	UserID    int64
	ProductID int64
	Ref       int64
	Qty       int
}

// mockBackend is a tiny in-memory cart service.
type mockBackend struct {
	mu     sync.Mutex
	rows   []domain.CartRow
	nextID int64
	calls  []call

	GetErr    error
	AddErr    error
	UpdateErr error
	RemoveErr error
}

func (m *mockBackend) Get(ctx context.Context, userID int64) ([]domain.CartRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Op: "get", UserID: userID})
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make([]domain.CartRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockBackend) Add(ctx context.Context, userID, productID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Op: "add", UserID: userID, ProductID: productID, Qty: qty})
	if m.AddErr != nil {
		return m.AddErr
	}
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			m.rows[i].Quantity += qty
			return nil
		}
	}
	m.nextID++
	m.rows = append(m.rows, domain.CartRow{ID: 100 + m.nextID, UserID: userID, ProductID: productID, Quantity: qty})
	return nil
}

func (m *mockBackend) UpdateQuantity(ctx context.Context, ref int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Op: "update", Ref: ref, Qty: qty})
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i := range m.rows {
		if m.rows[i].ID == ref {
			m.rows[i].Quantity = qty
		}
	}
	return nil
}

func (m *mockBackend) Remove(ctx context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Op: "remove", UserID: userID, ProductID: productID})
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockBackend) ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.Op)
	}
	return out
}

func (m *mockBackend) lastOf(op string) (call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Op == op {
			return m.calls[i], true
		}
	}
	return call{}, false
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
	mu      sync.Mutex
	notices []domain.Notice
}

func (m *mockNotifier) Notify(n domain.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notices)
}
