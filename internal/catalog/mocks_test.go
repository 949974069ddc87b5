package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fjod/go_cart/storefront/domain"
)

type mockSource struct {
	ListFunc func(ctx context.Context) ([]domain.Product, error)
	calls    atomic.Int32
}

func (m *mockSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.calls.Add(1)
	return m.ListFunc(ctx)
}

type mockCache struct {
	mu       sync.Mutex
	products []domain.Product
	getErr   error
	sets     int
}

func (m *mockCache) Get(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.products == nil {
		return nil, ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) Set(ctx context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
