// Package cart keeps the shopper's cart view in line with the cart service.
package cart

import (
	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/shopspring/decimal"
)

// Reconcile joins server rows with the catalog. Output keeps row order.
// Snapshots arrive already in major units, so both candidates are major.
func Reconcile(rows []domain.CartRow, products catalog.Lookup) []domain.CartLineItem {
	items := make([]domain.CartLineItem, 0, len(rows))
	for _, r := range rows {
		if r.Quantity <= 0 {
			continue
		}

		item := domain.CartLineItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			Image:     r.Image,
			Quantity:  r.Quantity,
		}

		var catalogPrice any
		if p, ok := products.Get(r.ProductID); ok {
			p := p
			item.Product = &p
			catalogPrice = p.Price
			if p.Name != "" {
				item.Name = p.Name
			}
			if p.Image != "" {
				item.Image = p.Image
			}
		}
		if item.Name == "" {
			item.Name = catalog.PlaceholderName(r.ProductID)
		}
		if item.Image == "" {
			item.Image = catalog.PlaceholderImage(r.ProductID)
		}

		item.UnitPrice = price.Resolve(
			price.Candidate{Key: "priceSnapshot", Value: r.PriceSnapshot, Major: true},
			price.Candidate{Key: "price", Value: catalogPrice, Major: true},
		)
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, item)
	}
	return items
}

func Total(items []domain.CartLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
