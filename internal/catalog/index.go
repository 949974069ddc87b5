// Package catalog holds the per-session product index used to backfill
// price, name and image on cart, wishlist and order line items.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"golang.org/x/sync/singleflight"
)

type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Lookup is the read side shared by the reconcilers.
type Lookup interface {
	Get(id int64) (domain.Product, bool)
}

// Index is rebuilt wholesale on every Load and swapped in atomically, so
// readers never see a half-built map.
type Index struct {
	source  ProductSource
	cache   SnapshotCache
	timeout time.Duration

	products atomic.Pointer[map[int64]domain.Product]
	sfg      singleflight.Group
}

// NewIndex returns an empty index. cache may be nil.
func NewIndex(source ProductSource, cache SnapshotCache, timeout time.Duration) *Index {
	idx := &Index{source: source, cache: cache, timeout: timeout}
	idx.install(nil)
	return idx
}

// Load fetches the full catalog. On failure the index falls back to the
// cached snapshot, or to empty, and the fetch error is still returned so
// the caller can notify.
func (i *Index) Load(ctx context.Context) error {
	_, err, _ := i.sfg.Do("catalog", func() (interface{}, error) {
		fetchCtx := ctx
		if i.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, i.timeout)
			defer cancel()
		}

		products, err := i.source.ListProducts(fetchCtx)
		if err != nil {
			metrics.Degraded("catalog")
			i.install(i.fromSnapshot(ctx))
			return nil, fmt.Errorf("load catalog: %w", err)
		}

		i.install(products)
		if i.cache != nil {
			go func() {
				if err := i.cache.Set(context.Background(), products); err != nil {
					logger.Warn("catalog snapshot set failed", "error", err)
				}
			}()
		}
		return nil, nil
	})
	return err
}

func (i *Index) fromSnapshot(ctx context.Context) []domain.Product {
	if i.cache == nil {
		return nil
	}
	products, err := i.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.WithCtx(ctx).Warn("catalog snapshot get failed", "error", err)
		}
		return nil
	}
	logger.WithCtx(ctx).Info("catalog served from snapshot", "products", len(products))
	return products
}

func (i *Index) install(products []domain.Product) {
	m := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	i.products.Store(&m)
}

func (i *Index) Get(id int64) (domain.Product, bool) {
	p, ok := (*i.products.Load())[id]
	return p, ok
}

func (i *Index) Len() int {
	return len(*i.products.Load())
}

// Products returns the catalog sorted by id.
func (i *Index) Products() []domain.Product {
	m := *i.products.Load()
	out := make([]domain.Product, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Categories lists distinct lower-cased categories with "all" first.
func (i *Index) Categories() []string {
	seen := map[string]struct{}{}
	var cats []string
	for _, p := range *i.products.Load() {
		c := strings.ToLower(strings.TrimSpace(p.Category))
		if c == "" || c == "all" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return append([]string{"all"}, cats...)
}

func PlaceholderName(id int64) string {
	return fmt.Sprintf("Product #%d", id)
}

func PlaceholderImage(id int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/80/80", id)
}

// Static is a fixed Lookup, mostly for tests and one-off normalization.
type Static map[int64]domain.Product

func (s Static) Get(id int64) (domain.Product, bool) {
	p, ok := s[id]
	return p, ok
}

func NewStatic(products ...domain.Product) Static {
	s := make(Static, len(products))
	for _, p := range products {
		s[p.ID] = p
	}
	return s
}
