package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payload"
	"github.com/fjod/go_cart/storefront/internal/price"
)

type OrdersClient struct{ c *Client }

func NewOrdersClient(c *Client) *OrdersClient { return &OrdersClient{c: c} }

func (oc *OrdersClient) List(ctx context.Context, userID int64) ([]domain.Order, error) {
	data, err := oc.c.Do(ctx, http.MethodGet, "/orders/"+pathID(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	list, err := payload.DecodeList(data)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(list))
	for _, m := range list {
		orders = append(orders, orderFromFields(m))
	}
	return orders, nil
}

// Create records an order. A 2xx answer means the order exists even when
// the echoed body cannot be read, so decoding problems are not errors.
func (oc *OrdersClient) Create(ctx context.Context, req domain.OrderDraft) (domain.Order, error) {
	body := map[string]any{
		"userId":    req.UserID,
		"total":     json.Number(req.Total.StringFixed(2)),
		"itemsJson": req.ItemsJSON,
	}
	if req.PaymentIntentID != "" {
		body["paymentIntentId"] = req.PaymentIntentID
	}

	data, err := oc.c.Do(ctx, http.MethodPost, "/orders", nil, body)
	if err != nil {
		return domain.Order{}, err
	}
	m, err := payload.DecodeObject(data)
	if err != nil {
		return domain.Order{
			UserID:          req.UserID,
			ItemsJSON:       req.ItemsJSON,
			Total:           req.Total,
			PaymentIntentID: req.PaymentIntentID,
			Status:          domain.OrderStatusPlaced,
		}, nil
	}
	return orderFromFields(m), nil
}

func orderFromFields(m payload.Fields) domain.Order {
	o := domain.Order{}
	o.ID, _ = payload.Int64Field(m, "id")
	o.UserID, _ = payload.Int64Field(m, "userId", "user_id")
	o.PaymentIntentID = payload.StringField(m, "paymentIntentId", "payment_intent_id", "paymentRef")

	switch items := payload.First(m, "itemsJson", "items_json", "items").(type) {
	case string:
		o.ItemsJSON = items
	case []any:
		if b, err := json.Marshal(items); err == nil {
			o.ItemsJSON = string(b)
		}
	}

	if v := payload.First(m, "total", "totalAmount"); v != nil {
		tag := price.UnitTag(m)
		o.Total = price.Resolve(price.Candidate{Key: "total", Value: v, Unit: tag, Major: tag == ""})
	}

	o.Status = domain.OrderStatus(strings.ToUpper(payload.StringField(m, "status")))
	if o.Status == "" {
		o.Status = domain.OrderStatusProcessing
	}
	o.CreatedAt = payload.Time(payload.First(m, "createdAt", "created_at", "orderDate", "date"))
	return o
}
