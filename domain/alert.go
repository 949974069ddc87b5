package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnrecordedPayment describes a payment that was authorized but has no
// order behind it. It needs a human to reconcile.
type UnrecordedPayment struct {
	CheckoutID string          `json:"checkout_id"`
	UserID     int64           `json:"user_id"`
	PaymentRef string          `json:"payment_ref"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency,omitempty"`
	ItemsJSON  string          `json:"items_json"`
	Cause      string          `json:"cause"`
	OccurredAt time.Time       `json:"occurred_at"`
}
