package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	index    *catalog.Index
	currency string
	timeout  time.Duration
}

func NewCatalogHandler(index *catalog.Index, currency string, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		index:    index,
		currency: currency,
		timeout:  timeout,
	}
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
}

type ProductsResponse struct {
	Products   []ProductResponse `json:"products"`
	Categories []string          `json:"categories"`
}

// GET /api/v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.index.Len() == 0 {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		if err := h.index.Load(ctx); err != nil {
			logger.WithCtx(ctx).Warn("catalog served degraded", "error", err)
		}
		cancel()
	}

	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	all := h.index.Products()
	products := make([]ProductResponse, 0, len(all))
	for _, p := range all {
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		products = append(products, ProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			PriceDisplay: price.Format(p.Price, h.currency),
			Image:        p.Image,
			Category:     p.Category,
		})
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Categories: h.index.Categories()})
}
