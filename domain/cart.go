package domain

import "github.com/shopspring/decimal"

// CartRow is a cart entry as the cart service reports it.
type CartRow struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`

	// PriceSnapshot is nil when the row carried no price of its own.
	PriceSnapshot *decimal.Decimal `json:"price_snapshot,omitempty"`

	// Embedded display data some cart payloads carry alongside the row.
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// CartLineItem is derived for display and never persisted.
type CartLineItem struct {
	ProductID int64           `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
