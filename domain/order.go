package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// Order is immutable once recorded. ItemsJSON keeps the serialized
// line-item list exactly as the order service stored it.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	ItemsJSON       string          `json:"items_json"`
	Total           decimal.Decimal `json:"total"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderLineItem is the serialized element of Order.ItemsJSON.
// Price is the unit price at purchase time in major units.
type OrderLineItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// MarshalJSON writes price as a JSON number with two decimals, the shape the
// order service stores. The decimal point marks the value as major units so
// whole prices of 1000 or more are not read back as minor units.
func (i OrderLineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID int64       `json:"productId"`
		Quantity  int         `json:"quantity"`
		Price     json.Number `json:"price"`
	}{i.ProductID, i.Quantity, json.Number(i.Price.StringFixed(2))})
}

// OrderDraft is the create-order payload.
type OrderDraft struct {
	UserID          int64
	Total           decimal.Decimal
	ItemsJSON       string
	PaymentIntentID string
}

type DisplayOrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type DisplayOrder struct {
	ID              int64              `json:"id"`
	Status          OrderStatus        `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	PaymentIntentID string             `json:"payment_intent_id,omitempty"`
	Items           []DisplayOrderItem `json:"items"`
	ComputedTotal   decimal.Decimal    `json:"computed_total"`
	Total           decimal.Decimal    `json:"total"`
}
