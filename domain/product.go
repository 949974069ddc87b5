package domain

import "github.com/shopspring/decimal"

// Product is the read-only catalog copy held for the session.
// Price is always in major units.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}
