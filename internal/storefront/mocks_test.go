package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

type mockSource struct {
	Products []domain.Product
	Err      error
}

func (m *mockSource) ListProducts(context.Context) ([]domain.Product, error) {
	return m.Products, m.Err
}

type mockAuth struct {
	Session domain.Session
	User    domain.User
	Err     error
}

func (m *mockAuth) Login(_ context.Context, _, _ string) (domain.Session, error) {
	return m.Session, m.Err
}

func (m *mockAuth) Signup(_ context.Context, req api.SignupRequest) (domain.User, error) {
	if m.Err != nil {
		return domain.User{}, m.Err
	}
	return domain.User{ID: 99, Name: req.Name, Email: req.Email}, nil
}

type mockCart struct {
	mu     sync.Mutex
	rows   []domain.CartRow
	GetErr error
}

func (m *mockCart) Get(context.Context, int64) ([]domain.CartRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return append([]domain.CartRow(nil), m.rows...), nil
}

func (m *mockCart) Add(_ context.Context, userID, productID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			m.rows[i].Quantity += qty
			return nil
		}
	}
	m.rows = append(m.rows, domain.CartRow{ID: int64(len(m.rows) + 1), UserID: userID, ProductID: productID, Quantity: qty})
	return nil
}

func (m *mockCart) UpdateQuantity(_ context.Context, ref int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == ref {
			m.rows[i].Quantity = qty
		}
	}
	return nil
}

func (m *mockCart) Remove(_ context.Context, _, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type mockWishlist struct {
	mu   sync.Mutex
	rows []domain.WishlistRow
}

func (m *mockWishlist) Get(context.Context, int64) ([]domain.WishlistRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WishlistRow(nil), m.rows...), nil
}

func (m *mockWishlist) Exists(_ context.Context, _, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWishlist) Add(_ context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, domain.WishlistRow{ID: int64(len(m.rows) + 1), UserID: userID, ProductID: productID})
	return nil
}

func (m *mockWishlist) Remove(_ context.Context, _, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type mockOrders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (m *mockOrders) List(context.Context, int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

func (m *mockOrders) Create(_ context.Context, d domain.OrderDraft) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := domain.Order{
		ID:              int64(len(m.orders) + 1),
		UserID:          d.UserID,
		ItemsJSON:       d.ItemsJSON,
		Total:           d.Total,
		PaymentIntentID: d.PaymentIntentID,
		Status:          domain.OrderStatusProcessing,
		CreatedAt:       time.Now(),
	}
	m.orders = append(m.orders, o)
	return o, nil
}

type mockIntents struct{}

func (mockIntents) CreatePaymentIntent(context.Context, int64) (string, error) {
	return "pi_1_secret_x", nil
}

type mockGateway struct{}

func (mockGateway) Confirm(context.Context, payment.ConfirmRequest) (payment.Authorization, error) {
	return payment.Authorization{ID: "pi_1", Status: payment.StatusSucceeded}, nil
}

type mockAlerter struct{}

func (mockAlerter) PaymentUnrecorded(context.Context, domain.UnrecordedPayment) error { return nil }
