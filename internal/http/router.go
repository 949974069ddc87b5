// Package http is the backend-for-frontend: a JSON API over one
// storefront.App per signed-in shopper.
package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Sessions       *Sessions
	Catalog        *catalog.Index
	Currency       string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	sessionHandler := NewSessionHandler(cfg.Sessions, cfg.RequestTimeout)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Currency, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Currency, cfg.RequestTimeout)
	wishlistHandler := NewWishlistHandler(cfg.Currency, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Currency)
	ordersHandler := NewOrdersHandler(cfg.Currency, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session/login", sessionHandler.Login)
		r.Post("/session/signup", sessionHandler.Signup)
		r.Get("/catalog", catalogHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions))

			r.Get("/session", sessionHandler.Get)
			r.Put("/session/view", sessionHandler.Navigate)
			r.Delete("/session", sessionHandler.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.Get)
				r.Post("/{product_id}/toggle", wishlistHandler.Toggle)
				r.Post("/{product_id}/move-to-cart", wishlistHandler.MoveToCart)
				r.Delete("/{product_id}", wishlistHandler.Remove)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutHandler.Begin)
				r.Get("/", checkoutHandler.Get)
				r.Delete("/", checkoutHandler.Cancel)
				r.Post("/confirm-amount", checkoutHandler.ConfirmAmount)
				r.Post("/pay", checkoutHandler.Pay)
			})

			r.Get("/orders", ordersHandler.List)
			r.Get("/orders/{order_id}", ordersHandler.Get)
			r.Get("/notices", Notices)
		})
	})

	return otelhttp.NewHandler(r, "storefront-bff")
}
