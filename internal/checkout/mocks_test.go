package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

// MockShop plays cart, orders and payment-intent services at once.
type MockShop struct {
	mu      sync.Mutex
	rows    []domain.CartRow
	orders  []domain.Order
	nextID  int64
	removed []int64

	IntentAmounts []int64
	IntentErr     error
	Drafts        []domain.OrderDraft
	CreateErr     error
	RemoveErr     map[int64]error
}

func (m *MockShop) Get(_ context.Context, userID int64) ([]domain.CartRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *MockShop) Add(_ context.Context, userID, productID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			m.rows[i].Quantity += qty
			return nil
		}
	}
	m.nextID++
	m.rows = append(m.rows, domain.CartRow{ID: 500 + m.nextID, UserID: userID, ProductID: productID, Quantity: qty})
	return nil
}

func (m *MockShop) UpdateQuantity(_ context.Context, ref int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == ref {
			m.rows[i].Quantity = qty
		}
	}
	return nil
}

func (m *MockShop) Remove(_ context.Context, _ int64, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.RemoveErr[productID]; err != nil {
		return err
	}
	m.removed = append(m.removed, productID)
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *MockShop) List(_ context.Context, _ int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *MockShop) Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Drafts = append(m.Drafts, draft)
	if m.CreateErr != nil {
		return domain.Order{}, m.CreateErr
	}
	o := domain.Order{
		ID:              int64(len(m.orders) + 1),
		UserID:          draft.UserID,
		ItemsJSON:       draft.ItemsJSON,
		Total:           draft.Total,
		PaymentIntentID: draft.PaymentIntentID,
		Status:          domain.OrderStatusProcessing,
		CreatedAt:       time.Now(),
	}
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *MockShop) CreatePaymentIntent(_ context.Context, amountMinor int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentAmounts = append(m.IntentAmounts, amountMinor)
	if m.IntentErr != nil {
		return "", m.IntentErr
	}
	return "pi_test_secret_abc", nil
}

func (m *MockShop) removedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.removed...)
}

// MockGateway implements payment.Gateway.
type MockGateway struct {
	mu       sync.Mutex
	Auth     payment.Authorization
	Err      error
	Requests []payment.ConfirmRequest
	// Hook runs inside Confirm before it returns.
	Hook func()
}

func (m *MockGateway) Confirm(ctx context.Context, req payment.ConfirmRequest) (payment.Authorization, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	hook := m.Hook
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return payment.Authorization{}, err
	}
	if hook != nil {
		hook()
	}
	return m.Auth, m.Err
}

func (m *MockGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

type MockAlerter struct {
	mu     sync.Mutex
	Alerts []domain.UnrecordedPayment
	Err    error
}

func (m *MockAlerter) PaymentUnrecorded(_ context.Context, p domain.UnrecordedPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts = append(m.Alerts, p)
	return m.Err
}

type MockReloader struct {
	mu    sync.Mutex
	count int
}

func (m *MockReloader) Reload(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return nil
}

type fixedUser struct{ user domain.User }

func (f fixedUser) CurrentUser() (domain.User, bool) { return f.user, f.user.ID != 0 }

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notice) {}

var errBackend = errors.New("backend unavailable")
