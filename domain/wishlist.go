package domain

import "github.com/shopspring/decimal"

type WishlistRow struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
}

type WishlistLineItem struct {
	ProductID int64           `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
}
