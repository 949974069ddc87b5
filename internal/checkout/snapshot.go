package checkout

import (
	"encoding/json"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
)

// orderItemsJSON serializes the frozen items into the itemsJson the order
// service stores: productId, quantity and the unit price in major units.
func orderItemsJSON(items []domain.CartLineItem) (string, error) {
	lines := make([]domain.OrderLineItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.OrderLineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("marshal order items: %w", err)
	}
	return string(b), nil
}
