// Package orders turns stored orders into display orders and keeps the
// shopper's order history.
package orders

import (
	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/payload"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/shopspring/decimal"
)

// Normalize parses the serialized line items and rejoins them with the
// catalog. Unreadable items give an empty list, never an error. The stored
// total wins when it is non-zero.
func Normalize(order domain.Order, products catalog.Lookup) domain.DisplayOrder {
	d := domain.DisplayOrder{
		ID:              order.ID,
		Status:          order.Status,
		CreatedAt:       order.CreatedAt,
		PaymentIntentID: order.PaymentIntentID,
		Items:           []domain.DisplayOrderItem{},
		ComputedTotal:   decimal.Zero,
	}

	for _, m := range parseItems(order.ItemsJSON) {
		item, ok := normalizeItem(m, products)
		if !ok {
			continue
		}
		d.Items = append(d.Items, item)
		d.ComputedTotal = d.ComputedTotal.Add(item.Subtotal)
	}

	d.Total = order.Total
	if d.Total.IsZero() {
		d.Total = d.ComputedTotal
	}
	return d
}

func parseItems(itemsJSON string) []payload.Fields {
	if itemsJSON == "" {
		return nil
	}
	items, err := payload.DecodeList([]byte(itemsJSON))
	if err != nil {
		return nil
	}
	return items
}

func normalizeItem(m payload.Fields, products catalog.Lookup) (domain.DisplayOrderItem, bool) {
	embedded := payload.Nested(m, "product")
	pid, ok := payload.Int64Field(m, "productId", "product_id")
	if !ok && embedded != nil {
		pid, ok = payload.Int64Field(embedded, "id")
	}
	if !ok {
		return domain.DisplayOrderItem{}, false
	}

	item := domain.DisplayOrderItem{
		ProductID: pid,
		Name:      payload.StringField(m, "name"),
		Image:     payload.StringField(m, "image"),
		Quantity:  1,
	}
	if q, ok := payload.Int64Field(m, "quantity", "qty"); ok {
		item.Quantity = int(q)
	}
	if embedded != nil {
		if item.Name == "" {
			item.Name = payload.StringField(embedded, "name")
		}
		if item.Image == "" {
			item.Image = payload.StringField(embedded, "image", "imageUrl")
		}
	}

	product, inCatalog := products.Get(pid)
	if inCatalog {
		if item.Name == "" {
			item.Name = product.Name
		}
		if item.Image == "" {
			item.Image = product.Image
		}
	}
	if item.Name == "" {
		item.Name = catalog.PlaceholderName(pid)
	}
	if item.Image == "" {
		item.Image = catalog.PlaceholderImage(pid)
	}

	snapshot, found := price.FromFields(m)
	if (!found || snapshot.IsZero()) && embedded != nil {
		snapshot, found = price.FromProduct(embedded)
	}
	switch {
	case found && !snapshot.IsZero():
		item.UnitPrice = snapshot
	case inCatalog:
		item.UnitPrice = product.Price
	default:
		item.UnitPrice = decimal.Zero
	}
	item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return item, true
}
