// Package wishlist keeps the shopper's wishlist view in line with the
// wishlist service and moves items to the cart.
package wishlist

import (
	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
)

// Reconcile joins wishlist rows with the catalog, preserving row order.
func Reconcile(rows []domain.WishlistRow, products catalog.Lookup) []domain.WishlistLineItem {
	items := make([]domain.WishlistLineItem, 0, len(rows))
	for _, r := range rows {
		item := domain.WishlistLineItem{ProductID: r.ProductID}
		if p, ok := products.Get(r.ProductID); ok {
			p := p
			item.Product = &p
			item.Name = p.Name
			item.Image = p.Image
			item.Category = p.Category
			item.Price = p.Price
		}
		if item.Name == "" {
			item.Name = catalog.PlaceholderName(r.ProductID)
		}
		if item.Image == "" {
			item.Image = catalog.PlaceholderImage(r.ProductID)
		}
		items = append(items, item)
	}
	return items
}
