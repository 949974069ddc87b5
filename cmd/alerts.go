package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/spf13/cobra"
)

var alertsGroup string

// storefront alerts: tail payments that still need an order recorded.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Print reconciliation alerts for paid checkouts without an order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.SetDefault(logger.New(cfg.AppEnv, os.Stderr))
		if len(cfg.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is not set")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := publisher.NewConsumer(
			publisher.NewKafkaReader(cfg.AlertTopic, alertsGroup, cfg.KafkaBrokers...),
			func(_ context.Context, ev publisher.Event) { printAlert(os.Stdout, ev) },
		)
		defer c.Close()
		c.Run(ctx)
		return nil
	},
}

func init() {
	alertsCmd.Flags().StringVar(&alertsGroup, "group", "storefront-support", "kafka consumer group")
}

func printAlert(w io.Writer, ev publisher.Event) {
	fmt.Fprintf(w, "%s  payment=%s checkout=%s user=%d amount=%s\n  cause: %s\n  items: %s\n",
		ev.OccurredAt.Format("2006-01-02 15:04:05"),
		ev.PaymentRef, ev.CheckoutID, ev.UserID,
		price.Format(ev.Total, ev.Currency),
		ev.Cause, ev.ItemsJSON)
}
