package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-shopscraper/internal/crawler"
	"go-shopscraper/pkg/models"
)

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <url>...",
		Short: "Scrape product pages and print the records as JSON.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.sessionManager()
			if err != nil {
				return err
			}
			scraper := crawler.NewProductScraper(openFunc(m), a.cfg.Scrape, a.cfg.Markers, a.logger)

			products := make([]models.Product, 0, len(args))
			for _, url := range args {
				res, err := scraper.Scrape(cmd.Context(), url)
				if err != nil {
					a.logger.Error("Failed to scrape product", zap.String("url", url), zap.Error(err))
					continue
				}
				if res.OK() {
					products = append(products, res.Value)
				}
			}
			return writeJSON(cmd, products)
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
