package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payload"
	"github.com/fjod/go_cart/storefront/internal/price"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) Get(ctx context.Context, userID int64) ([]domain.CartRow, error) {
	data, err := cc.c.Do(ctx, http.MethodGet, "/cart/"+pathID(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	list, err := payload.DecodeList(data)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.CartRow, 0, len(list))
	for _, m := range list {
		if r, ok := cartRowFromFields(m); ok {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// Add creates the row or increments an existing one by qty.
func (cc *CartClient) Add(ctx context.Context, userID, productID int64, qty int) error {
	body := map[string]any{"userId": userID, "productId": productID, "quantity": qty}
	_, err := cc.c.Do(ctx, http.MethodPost, "/cart", nil, body)
	return err
}

// UpdateQuantity sets an absolute quantity. ref is the cart row id when
// known, otherwise the product id.
func (cc *CartClient) UpdateQuantity(ctx context.Context, ref int64, qty int) error {
	q := url.Values{"qty": {strconv.Itoa(qty)}}
	_, err := cc.c.Do(ctx, http.MethodPut, "/cart/"+pathID(ref), q, nil)
	return err
}

func (cc *CartClient) Remove(ctx context.Context, userID, productID int64) error {
	_, err := cc.c.Do(ctx, http.MethodDelete, "/cart/"+pathID(userID)+"/"+pathID(productID), nil, nil)
	return err
}

func cartRowFromFields(m payload.Fields) (domain.CartRow, bool) {
	product := payload.Nested(m, "product")
	pid, ok := payload.Int64Field(m, "productId", "product_id")
	if !ok && product != nil {
		pid, ok = payload.Int64Field(product, "id", "productId")
	}
	if !ok {
		return domain.CartRow{}, false
	}

	row := domain.CartRow{ProductID: pid}
	row.ID, _ = payload.Int64Field(m, "id")
	row.UserID, _ = payload.Int64Field(m, "userId", "user_id")
	qty, _ := payload.Int64Field(m, "quantity", "qty")
	row.Quantity = int(qty)

	if d, found := price.FromFields(m); found {
		row.PriceSnapshot = &d
	} else if product != nil {
		if d, found := price.FromProduct(product); found {
			row.PriceSnapshot = &d
		}
	}

	row.Name = payload.StringField(m, "name")
	row.Image = payload.StringField(m, "image")
	if product != nil {
		if row.Name == "" {
			row.Name = payload.StringField(product, "name")
		}
		if row.Image == "" {
			row.Image = payload.StringField(product, "image", "imageUrl")
		}
	}
	return row, true
}

func pathID(n int64) string { return strconv.FormatInt(n, 10) }
