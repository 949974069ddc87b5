package api

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payload"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/shopspring/decimal"
)

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

// ListProducts returns the full catalog. Entries without an id are dropped.
func (cc *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := cc.c.Do(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	rows, err := payload.DecodeList(data)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		if p, ok := productFromFields(m); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func productFromFields(m payload.Fields) (domain.Product, bool) {
	id, ok := payload.Int64Field(m, "id", "productId", "product_id")
	if !ok {
		return domain.Product{}, false
	}
	return domain.Product{
		ID:       id,
		Name:     payload.StringField(m, "name", "title"),
		Price:    catalogPrice(m),
		Image:    payload.StringField(m, "image", "imageUrl", "image_url"),
		Category: payload.StringField(m, "category"),
	}, true
}

func catalogPrice(m payload.Fields) decimal.Decimal {
	d, _ := price.FromProduct(m)
	return d
}
