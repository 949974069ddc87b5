package http

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/payment"
)

type MockSource struct {
	Products []domain.Product
}

func (m *MockSource) ListProducts(context.Context) ([]domain.Product, error) {
	return m.Products, nil
}

type MockAuth struct {
	Session domain.Session
	Err     error
}

func (m *MockAuth) Login(_ context.Context, email, _ string) (domain.Session, error) {
	if m.Err != nil {
		return domain.Session{}, m.Err
	}
	return m.Session, nil
}

func (m *MockAuth) Signup(_ context.Context, req api.SignupRequest) (domain.User, error) {
	return domain.User{ID: 77, Name: req.Name, Email: req.Email}, nil
}

// MockBackend plays every backend service for one shopper.
type MockBackend struct {
	mu       sync.Mutex
	cart     []domain.CartRow
	wishlist []domain.WishlistRow
	orders   []domain.Order

	CreateErr error
}

func (m *MockBackend) Carts() *mockCartAPI         { return &mockCartAPI{m} }
func (m *MockBackend) Wishlists() *mockWishlistAPI { return &mockWishlistAPI{m} }

type mockCartAPI struct{ m *MockBackend }

func (c *mockCartAPI) Get(context.Context, int64) ([]domain.CartRow, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return append([]domain.CartRow(nil), c.m.cart...), nil
}

func (c *mockCartAPI) Add(_ context.Context, userID, productID int64, qty int) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for i := range c.m.cart {
		if c.m.cart[i].ProductID == productID {
			c.m.cart[i].Quantity += qty
			return nil
		}
	}
	c.m.cart = append(c.m.cart, domain.CartRow{ID: int64(len(c.m.cart) + 1), UserID: userID, ProductID: productID, Quantity: qty})
	return nil
}

func (c *mockCartAPI) UpdateQuantity(_ context.Context, ref int64, qty int) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for i := range c.m.cart {
		if c.m.cart[i].ID == ref {
			c.m.cart[i].Quantity = qty
		}
	}
	return nil
}

func (c *mockCartAPI) Remove(_ context.Context, _, productID int64) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	kept := c.m.cart[:0]
	for _, r := range c.m.cart {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	c.m.cart = kept
	return nil
}

type mockWishlistAPI struct{ m *MockBackend }

func (w *mockWishlistAPI) Get(context.Context, int64) ([]domain.WishlistRow, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	return append([]domain.WishlistRow(nil), w.m.wishlist...), nil
}

func (w *mockWishlistAPI) Exists(_ context.Context, _, productID int64) (bool, error) {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	for _, r := range w.m.wishlist {
		if r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (w *mockWishlistAPI) Add(_ context.Context, userID, productID int64) error {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	w.m.wishlist = append(w.m.wishlist, domain.WishlistRow{ID: int64(len(w.m.wishlist) + 1), UserID: userID, ProductID: productID})
	return nil
}

func (w *mockWishlistAPI) Remove(_ context.Context, _, productID int64) error {
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	kept := w.m.wishlist[:0]
	for _, r := range w.m.wishlist {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	w.m.wishlist = kept
	return nil
}

func (m *MockBackend) List(context.Context, int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

func (m *MockBackend) Create(_ context.Context, d domain.OrderDraft) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return domain.Order{}, m.CreateErr
	}
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

func (m *MockBackend) CreatePaymentIntent(context.Context, int64) (string, error) {
	return "pi_9_secret_z", nil
}

type MockGateway struct {
	Err error
}

func (g *MockGateway) Confirm(context.Context, payment.ConfirmRequest) (payment.Authorization, error) {
	if g.Err != nil {
		return payment.Authorization{}, g.Err
	}
	return payment.Authorization{ID: "pi_9", Status: payment.StatusSucceeded}, nil
}

type MockAlerter struct {
	mu     sync.Mutex
	Alerts []domain.UnrecordedPayment
}

func (a *MockAlerter) PaymentUnrecorded(_ context.Context, p domain.UnrecordedPayment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Alerts = append(a.Alerts, p)
	return nil
}
