package crawler

import (
	"context"
	"fmt"

	"go-shopscraper/internal/crawler/engine"
	"go-shopscraper/pkg/models"
)

// ProductProcessor implements engine.Processor for product detail pages.
type ProductProcessor struct {
	Scraper *ProductScraper
}

// Process scrapes a single product page. Pages whose markers never render are
// reported as engine.ErrSkipped.
func (p *ProductProcessor) Process(ctx context.Context, url string) ([]models.Product, error) {
	res, err := p.Scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s waiting for %q", engine.ErrSkipped, res.Status, res.Marker)
	}
	return []models.Product{res.Value}, nil
}
