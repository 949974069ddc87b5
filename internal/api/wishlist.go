package api

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/payload"
)

type WishlistClient struct{ c *Client }

func NewWishlistClient(c *Client) *WishlistClient { return &WishlistClient{c: c} }

func (wc *WishlistClient) Get(ctx context.Context, userID int64) ([]domain.WishlistRow, error) {
	data, err := wc.c.Do(ctx, http.MethodGet, "/wishlist/"+pathID(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	list, err := payload.DecodeList(data)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.WishlistRow, 0, len(list))
	for _, m := range list {
		pid, ok := payload.Int64Field(m, "productId", "product_id")
		if !ok {
			if p := payload.Nested(m, "product"); p != nil {
				pid, ok = payload.Int64Field(p, "id")
			}
		}
		if !ok {
			continue
		}
		r := domain.WishlistRow{ProductID: pid}
		r.ID, _ = payload.Int64Field(m, "id")
		r.UserID, _ = payload.Int64Field(m, "userId", "user_id")
		rows = append(rows, r)
	}
	return rows, nil
}

func (wc *WishlistClient) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	data, err := wc.c.Do(ctx, http.MethodGet, "/wishlist/exists/"+pathID(userID)+"/"+pathID(productID), nil, nil)
	if err != nil {
		return false, err
	}
	v, err := payload.DecodeLoose(data)
	if err != nil {
		return false, err
	}
	if m, ok := v.(payload.Fields); ok {
		return payload.Bool(payload.First(m, "exists", "value")), nil
	}
	return payload.Bool(v), nil
}

func (wc *WishlistClient) Add(ctx context.Context, userID, productID int64) error {
	body := map[string]any{"userId": userID, "productId": productID}
	_, err := wc.c.Do(ctx, http.MethodPost, "/wishlist", nil, body)
	return err
}

func (wc *WishlistClient) Remove(ctx context.Context, userID, productID int64) error {
	_, err := wc.c.Do(ctx, http.MethodDelete, "/wishlist/"+pathID(userID)+"/"+pathID(productID), nil, nil)
	return err
}
