package api

import "net/http"

// Backend groups one typed client per backend service. Each service gets
// its own breaker so a failing wishlist cannot open the cart circuit.
type Backend struct {
	Catalog  *CatalogClient
	Cart     *CartClient
	Wishlist *WishlistClient
	Orders   *OrdersClient
	Payment  *PaymentClient
	Auth     *AuthClient
}

func NewBackend(baseURL string, httpClient *http.Client, bs BreakerSettings) *Backend {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Backend{
		Catalog:  NewCatalogClient(NewClient("catalog", baseURL, httpClient, bs)),
		Cart:     NewCartClient(NewClient("cart", baseURL, httpClient, bs)),
		Wishlist: NewWishlistClient(NewClient("wishlist", baseURL, httpClient, bs)),
		Orders:   NewOrdersClient(NewClient("orders", baseURL, httpClient, bs)),
		Payment:  NewPaymentClient(NewClient("payment", baseURL, httpClient, bs)),
		Auth:     NewAuthClient(NewClient("auth", baseURL, httpClient, bs)),
	}
}
