package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/domain"
)

// SnapshotCache keeps the last catalog that loaded successfully.
type SnapshotCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
