package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/price"
	"github.com/spf13/cobra"
)

var catalogCategory string

// storefront catalog: print the catalog as the storefront sees it.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load the product catalog and print it with normalized prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.SetDefault(logger.New(cfg.AppEnv, os.Stderr))

		backend := api.NewBackend(cfg.APIBaseURL, api.NewHTTPClient(), api.BreakerSettings{
			Failures: cfg.BreakerFailures,
			Timeout:  cfg.BreakerTimeout,
		})
		index := catalog.NewIndex(backend.Catalog, nil, cfg.UpstreamTimeout)
		if err := index.Load(cmd.Context()); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return printCatalog(os.Stdout, index.Products(), cfg.Currency, catalogCategory)
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "only list products of this category")
}

func printCatalog(out io.Writer, products []domain.Product, currency, category string) error {
	category = strings.ToLower(strings.TrimSpace(category))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
	fmt.Fprintln(w, "--\t----\t--------\t-----")
	for _, p := range products {
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, price.Format(p.Price, currency))
	}
	return w.Flush()
}
