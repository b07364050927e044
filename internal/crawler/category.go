package crawler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-shopscraper/internal/config"
)

// CategoryScraper lists the product links of a category page.
type CategoryScraper struct {
	markers  config.MarkerConfig
	timeout  time.Duration
	scroller *Scroller
	parser   *Parser
	logger   *zap.Logger
}

func NewCategoryScraper(cfg config.ScrapeConfig, markers config.MarkerConfig, logger *zap.Logger) *CategoryScraper {
	return &CategoryScraper{
		markers:  markers,
		timeout:  cfg.WaitTimeout,
		scroller: NewScroller(cfg),
		parser:   NewParser(markers),
		logger:   logger.Named("category"),
	}
}

// FetchSource loads url, waits for the carousel to render, scrolls to the
// bottom and returns the page source.
func (c *CategoryScraper) FetchSource(ctx context.Context, page Page, url string) (Result[string], error) {
	if err := page.Navigate(ctx, url); err != nil {
		return Result[string]{}, fmt.Errorf("navigate %s: %w", url, err)
	}

	found, err := page.WaitForClass(ctx, c.markers.Carousel, c.timeout)
	if err != nil {
		return Result[string]{}, err
	}
	if !found {
		c.logger.Warn("Category page did not render",
			zap.String("url", url),
			zap.String("marker", c.markers.Carousel),
			zap.Duration("timeout", c.timeout))
		return TimedOut[string](c.markers.Carousel), nil
	}

	steps, err := c.scroller.ScrollDown(ctx, page)
	if err != nil {
		return Result[string]{}, err
	}
	c.logger.Debug("Scrolled category page", zap.String("url", url), zap.Int("steps", steps))

	source, err := page.HTML(ctx)
	if err != nil {
		return Result[string]{}, fmt.Errorf("read page source: %w", err)
	}
	return Found(source), nil
}

// ProductURLs returns the absolute product URLs listed on a category page.
func (c *CategoryScraper) ProductURLs(ctx context.Context, page Page, url string) (Result[[]string], error) {
	source, err := c.FetchSource(ctx, page, url)
	if err != nil || !source.OK() {
		return Result[[]string]{Status: source.Status, Marker: source.Marker}, err
	}

	links, err := c.parser.ProductURLs(source.Value)
	if err != nil {
		return Result[[]string]{}, err
	}
	c.logger.Info("Collected product links", zap.String("url", url), zap.Int("count", len(links)))
	return Found(links), nil
}
