package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-shopscraper/internal/browser"
	"go-shopscraper/internal/crawler"
)

func newCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "category <url>",
		Short: "Print the product URLs listed on a category page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.sessionManager()
			if err != nil {
				return err
			}
			links, err := a.categoryLinks(cmd.Context(), m, args[0])
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), links)
		},
	}
}

func (a *app) categoryLinks(ctx context.Context, m *browser.Manager, url string) ([]string, error) {
	session, err := m.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			a.logger.Warn("Failed to close session", zap.Error(err))
		}
	}()

	scraper := crawler.NewCategoryScraper(a.cfg.Scrape, a.cfg.Markers, a.logger)
	res, err := scraper.ProductURLs(ctx, session, url)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("category page %s: %s waiting for %q", url, res.Status, res.Marker)
	}
	return res.Value, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
