package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// storefront serve: start the BFF.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backend-for-frontend HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.Load())
	},
}

func serve(cfg config.Config) error {
	logger.SetDefault(logger.New(cfg.AppEnv, os.Stdout))

	backend := api.NewBackend(cfg.APIBaseURL, api.NewHTTPClient(), api.BreakerSettings{
		Failures: cfg.BreakerFailures,
		Timeout:  cfg.BreakerTimeout,
	})

	// Without Redis the catalog has no snapshot and sessions live in memory.
	var (
		snapshots catalog.SnapshotCache
		store     session.Store = session.NewMemoryStore(cfg.SessionTTL)
	)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory sessions", "addr", cfg.RedisAddr, "error", err)
	} else {
		snapshots = catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL)
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
	}
	cancel()

	index := catalog.NewIndex(backend.Catalog, snapshots, cfg.UpstreamTimeout)

	var gateway payment.Gateway = payment.Unconfigured{}
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(payment.StripeConfig{
			SecretKey:  cfg.StripeSecretKey,
			APIURL:     cfg.StripeAPIURL,
			HTTPClient: api.NewHTTPClient(),
		})
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payments are disabled")
	}

	var alerter checkout.Alerter = publisher.LogAlerter{}
	if len(cfg.KafkaBrokers) > 0 {
		ka := publisher.NewKafkaAlerter(publisher.NewKafkaWriter(cfg.AlertTopic, cfg.KafkaBrokers...))
		defer ka.Close()
		alerter = ka
	}

	sessions := h.NewSessions(store, func() *storefront.App {
		return storefront.New(storefront.Deps{
			Catalog:  index,
			Auth:     backend.Auth,
			Cart:     backend.Cart,
			Wishlist: backend.Wishlist,
			Orders:   backend.Orders,
			Intents:  backend.Payment,
			Gateway:  gateway,
			Alerter:  alerter,
			Currency: cfg.Currency,
			Timeout:  cfg.UpstreamTimeout,
		})
	})

	go func() {
		if err := index.Load(context.Background()); err != nil {
			logger.Warn("catalog warm-up failed", "error", err)
		}
	}()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: h.NewRouter(h.RouterConfig{
			Sessions:       sessions,
			Catalog:        index,
			Currency:       cfg.Currency,
			RequestTimeout: cfg.UpstreamTimeout,
			AllowedOrigins: cfg.CORSAllowOrigins,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront starting", "port", cfg.Port, "api_base_url", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
